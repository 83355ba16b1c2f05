package util

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EmailDomainTag is the binding tag for IsValidEmailDomain.
const EmailDomainTag = "emaildomain"

// IsValidEmailDomain reports whether email has the shape local@domain.tld:
// exactly one "@", a non-blank domain containing a dot that is neither its
// first nor its last character. Blank values are accepted; pair the rule with
// "required" when the field is mandatory.
func IsValidEmailDomain(email string) bool {
	if strings.TrimSpace(email) == "" {
		return true
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	if strings.TrimSpace(domain) == "" {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validateEmailDomain(fl validator.FieldLevel) bool {
	return IsValidEmailDomain(fl.Field().String())
}

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation(EmailDomainTag, validateEmailDomain)
}
