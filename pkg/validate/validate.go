package validate

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/google/uuid"
)

// Errors maps a request field to what is wrong with it.
type Errors map[string]string

// Check records msg for field unless ok. The first message per field wins.
func (e Errors) Check(ok bool, field, msg string) {
	if ok {
		return
	}
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// IsEmail accepts a bare address, without a display name.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}

func IsStatus(s string) bool {
	return domain.OrderStatus(s).Valid()
}
