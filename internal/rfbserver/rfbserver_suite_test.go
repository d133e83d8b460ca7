package rfbserver_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRFBServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "rfbserver e2e suite")
}
