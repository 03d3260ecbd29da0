package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Transport Suite")
}

var _ = Describe("OpenAPI Contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should document the core leave endpoints", func() {
		for _, path := range []string{
			"/auth/login",
			"/users",
			"/leave-types",
			"/leaves",
			"/leaves/balances",
			"/leaves/{id}/decision",
			"/dashboard",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should require auth on protected operations", func() {
		decision := doc.Paths.Find("/leaves/{id}/decision")
		Expect(decision).NotTo(BeNil())
		Expect(decision.Patch).NotTo(BeNil())
		Expect(decision.Patch.Security).NotTo(BeNil())
	})
})
