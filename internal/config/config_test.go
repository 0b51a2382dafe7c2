package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/branchsweep/internal/config"
)

var _ = Describe("Config", func() {
	It("resolves config path from override directory", func() {
		path, err := config.ConfigPath(filepath.Join("/tmp", "branchsweep"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix(filepath.Join("branchsweep", "config.yaml")))
	})

	It("resolves config path from override file", func() {
		path, err := config.ConfigPath(filepath.Join("/tmp", "config.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix(filepath.Join("tmp", "config.yaml")))
	})

	It("resolves config path from env", func() {
		Expect(os.Setenv("BRANCHSWEEP_CONFIG", filepath.Join("/cfg", "config.yaml"))).To(Succeed())
		defer func() { _ = os.Unsetenv("BRANCHSWEEP_CONFIG") }()
		path, err := config.ConfigPath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix(filepath.Join("cfg", "config.yaml")))
	})

	It("prefers local dotfile for runtime config resolution", func() {
		dir := GinkgoT().TempDir()
		localPath := filepath.Join(dir, ".branchsweep.yaml")
		Expect(os.WriteFile(localPath, []byte("skip_gc: true\n"), 0o644)).To(Succeed())

		path, err := config.ResolveConfigPath("", dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(localPath))
	})

	It("resolves runtime config from nearest parent dotfile", func() {
		dir := GinkgoT().TempDir()
		parentPath := filepath.Join(dir, ".branchsweep.yaml")
		Expect(os.WriteFile(parentPath, []byte("skip_gc: true\n"), 0o644)).To(Succeed())

		nested := filepath.Join(dir, "a", "b", "c")
		Expect(os.MkdirAll(nested, 0o755)).To(Succeed())

		path, err := config.ResolveConfigPath("", nested)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(parentPath))
	})
})

var _ = Describe("Load", func() {
	It("returns defaults for a missing file", func() {
		dir := GinkgoT().TempDir()
		cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Defaults.RemoteName).To(Equal("origin"))
		Expect(cfg.Defaults.TrunkCandidates).To(Equal([]string{"master", "main"}))
		Expect(cfg.UpdateCheckEnabled()).To(BeTrue())
	})

	It("backfills omitted defaults", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte("skip_gc: true\n"), 0o644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.SkipGC).To(BeTrue())
		Expect(cfg.Defaults.RemoteName).To(Equal("origin"))
		Expect(cfg.Defaults.TimeoutSeconds).To(Equal(300))
	})

	It("honours protected patterns and update toggle", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.yaml")
		body := "update_check: false\ndefaults:\n  protected:\n    - \"release/*\"\n"
		Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Defaults.Protected).To(Equal([]string{"release/*"}))
		Expect(cfg.UpdateCheckEnabled()).To(BeFalse())
	})

	It("rejects an unsupported kind", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.yaml")
		body := "apiVersion: skaphos.io/branchsweep/v1beta1\nkind: SomethingElse\n"
		Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("unsupported config kind")))
	})
})

var _ = Describe("Save", func() {
	It("round-trips a config through disk", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "nested", "config.yaml")

		cfg := config.DefaultConfig()
		cfg.SkipGC = true
		cfg.Defaults.Protected = []string{"release/*", "hotfix-*"}
		Expect(config.Save(&cfg, path)).To(Succeed())

		loaded, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.SkipGC).To(BeTrue())
		Expect(loaded.Defaults.Protected).To(Equal([]string{"release/*", "hotfix-*"}))
	})

	It("rejects a nil config", func() {
		Expect(config.Save(nil, "/tmp/x.yaml")).To(MatchError(ContainSubstring("nil")))
	})
})
