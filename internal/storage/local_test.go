package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/campushr/claims-management/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("LocalStore", func() {
	var (
		dir   string
		store *storage.LocalStore
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		var err error
		store, err = storage.NewLocalStore(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores a file under a fresh reference", func() {
		ref, err := store.Store([]byte("pdf-bytes"), "timesheet.pdf")

		Expect(err).NotTo(HaveOccurred())
		Expect(ref).NotTo(BeEmpty())
		Expect(ref).NotTo(Equal("timesheet.pdf"))
		Expect(filepath.Ext(ref)).To(Equal(".pdf"))

		data, err := os.ReadFile(filepath.Join(dir, ref))
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("pdf-bytes")))
	})

	It("never reuses a reference for the same original name", func() {
		first, err := store.Store([]byte("a"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())
		second, err := store.Store([]byte("b"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())

		Expect(first).NotTo(Equal(second))
	})

	It("deletes a stored file", func() {
		ref, err := store.Store([]byte("x"), "doc.png")
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Delete(ref)).To(Succeed())

		_, err = os.Stat(filepath.Join(dir, ref))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("tolerates deleting an already-missing reference", func() {
		Expect(store.Delete("never-stored.pdf")).To(Succeed())
		Expect(store.Delete("")).To(Succeed())
	})

	It("refuses path-like references", func() {
		err := store.Delete("../outside.pdf")
		Expect(err).To(HaveOccurred())
	})
})
