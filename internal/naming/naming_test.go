package naming

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. Word splitting on separators and camel boundaries
// 2. Each case converter over a shared set of inputs
// 3. Pluralize suffix rules and documented irregular limitation
// 4. Empty input yields empty output everywhere
// 5. Strict and lenient name validation

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"UserProfile", []string{"User", "Profile"}},
		{"userProfile", []string{"user", "Profile"}},
		{"user-profile", []string{"user", "profile"}},
		{"user_profile", []string{"user", "profile"}},
		{"user profile", []string{"user", "profile"}},
		{"--user__profile  ", []string{"user", "profile"}},
		{"HTTPServer", []string{"HTTPServer"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestCaseConverters(t *testing.T) {
	tests := []struct {
		input     string
		pascal    string
		camel     string
		kebab     string
		snake     string
		upperSnak string
	}{
		{"UserProfile", "UserProfile", "userProfile", "user-profile", "user_profile", "USER_PROFILE"},
		{"userProfile", "UserProfile", "userProfile", "user-profile", "user_profile", "USER_PROFILE"},
		{"user-profile", "UserProfile", "userProfile", "user-profile", "user_profile", "USER_PROFILE"},
		{"user_profile", "UserProfile", "userProfile", "user-profile", "user_profile", "USER_PROFILE"},
		{"order item line", "OrderItemLine", "orderItemLine", "order-item-line", "order_item_line", "ORDER_ITEM_LINE"},
		{"user", "User", "user", "user", "user", "USER"},
		{"", "", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.input), "PascalCase")
			assert.Equal(t, tt.camel, CamelCase(tt.input), "CamelCase")
			assert.Equal(t, tt.kebab, KebabCase(tt.input), "KebabCase")
			assert.Equal(t, tt.snake, SnakeCase(tt.input), "SnakeCase")
			assert.Equal(t, tt.upperSnak, UpperSnakeCase(tt.input), "UpperSnakeCase")
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"category", "categories"},
		{"Category", "Categories"},
		{"box", "boxes"},
		{"status", "statuses"},
		{"match", "matches"},
		{"dish", "dishes"},
		{"day", "days"},
		{"user", "users"},
		{"y", "ys"},
		{"", ""},
		// Irregular plurals are not handled.
		{"person", "persons"},
		{"child", "childs"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.input))
		})
	}
}

func TestValidateEntityName(t *testing.T) {
	valid := []string{"User", "user", "OrderItem2", "a"}
	invalid := []string{"", "2User", "user-profile", "user_profile", "User Profile", "Üser"}

	for _, name := range valid {
		assert.NoError(t, ValidateEntityName(name), name)
	}
	for _, name := range invalid {
		err := ValidateEntityName(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidName))
		assert.Contains(t, err.Error(), name)
	}
}

func TestValidateServiceName(t *testing.T) {
	valid := []string{"payment", "payment-service", "payment_service", "Payment2"}
	invalid := []string{"", "-payment", "_payment", "2payment", "payment service", "payment.service"}

	for _, name := range valid {
		assert.NoError(t, ValidateServiceName(name), name)
	}
	for _, name := range invalid {
		err := ValidateServiceName(name)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
}
