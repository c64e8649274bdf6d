package fuconfig_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/fuconfig"
)

var _ = Describe("FUConfig", func() {
	Describe("Default", func() {
		It("matches the default FU configuration from spec section 6", func() {
			config := fuconfig.Default()
			Expect(config.MemRS).To(Equal(2))
			Expect(config.AddRS).To(Equal(3))
			Expect(config.LogicRS).To(Equal(2))
			Expect(config.MulRS).To(Equal(1))
			Expect(config.RobSize).To(Equal(8))
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("rejects zero MEM reservation stations", func() {
			config := fuconfig.Default()
			config.MemRS = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("rejects zero ADD reservation stations", func() {
			config := fuconfig.Default()
			config.AddRS = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("rejects zero LOGIC reservation stations", func() {
			config := fuconfig.Default()
			config.LogicRS = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("rejects zero MUL reservation stations", func() {
			config := fuconfig.Default()
			config.MulRS = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("rejects a zero-size ROB", func() {
			config := fuconfig.Default()
			config.RobSize = 0
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("creates an independent copy", func() {
			original := fuconfig.Default()
			clone := original.Clone()

			clone.RobSize = 16

			Expect(original.RobSize).To(Equal(8))
			Expect(clone.RobSize).To(Equal(16))
		})
	})

	Describe("File operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "fuconfig-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("saves and loads a config round trip", func() {
			original := fuconfig.Default()
			original.RobSize = 4
			original.MulRS = 2

			path := filepath.Join(tempDir, "fu.json")
			Expect(original.Save(path)).To(Succeed())

			loaded, err := fuconfig.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.RobSize).To(Equal(4))
			Expect(loaded.MulRS).To(Equal(2))
			Expect(loaded.AddRS).To(Equal(3)) // untouched field keeps the default
		})

		It("returns an error for a non-existent file", func() {
			_, err := fuconfig.Load(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("returns an error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			Expect(os.WriteFile(path, []byte("not valid json"), 0o644)).To(Succeed())

			_, err := fuconfig.Load(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
