package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	fe := ValidateSignup("Ada", "ada@example.com", "longenough", "longenough", true)
	require.True(t, fe.OK())
	require.NoError(t, fe.Err())

	fe = ValidateSignup(" ", "not-an-email", "short", "other", false)
	require.Equal(t, FieldErrors{
		"firstName":       "First name is required",
		"email":           "Please enter a valid email",
		"password":        "Password must be at least 8 characters",
		"confirmPassword": "Passwords do not match",
		"acceptedTerms":   "You must accept the terms",
	}, fe)
	require.Error(t, fe.Err())

	fe = ValidateSignup("Ada", "", "", "", true)
	require.Equal(t, "Email is required", fe["email"])
	require.Equal(t, "Password is required", fe["password"])
	require.NotContains(t, fe, "confirmPassword")
}

func TestValidateEmail(t *testing.T) {
	require.True(t, ValidateEmail("a@b.co").OK())
	require.False(t, ValidateEmail("a@b").OK())
	require.False(t, ValidateEmail("a b@c.de").OK())
	require.Equal(t, "Email is required", ValidateEmail("   ")["email"])
}

func TestValidateLogin(t *testing.T) {
	require.True(t, ValidateLogin("a@b.co", "x").OK())
	require.Equal(t, "Please enter your email and password", ValidateLogin("", "x")["submit"])
}

func TestValidateTime(t *testing.T) {
	hhmm, fe := ValidateTime("weeklyCheckInTime", "8:30 am")
	require.True(t, fe.OK())
	require.Equal(t, "08:30", hhmm)

	_, fe = ValidateTime("weeklyCheckInTime", "later")
	require.Contains(t, fe, "weeklyCheckInTime")
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	fe := FieldErrors{"password": "b", "email": "a"}
	require.Equal(t, "email: a; password: b", fe.Error())
}
