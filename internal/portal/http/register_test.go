package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func registrationForm() url.Values {
	return url.Values{
		"name":             {"Aina Rahman"},
		"email":            {"Aina@Student.uthm.edu.my"},
		"matric_number":    {"ai21cs0001"},
		"department":       {"fsktm"},
		"password":         {testPassword},
		"confirm_password": {testPassword},
		"accept_terms":     {"on"},
	}
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	h := newHarness(t)
	const email = "aina@student.uthm.edu.my"

	a := h.agent(t)
	a.fetchCSRF()
	res := a.post("/register", registrationForm())
	require.Equal(t, http.StatusCreated, res.StatusCode, string(res.body))
	var reg authsdk.RegisterResponse
	res.decode(t, &reg)
	require.Equal(t, email, reg.Email)

	u, err := h.store.Users().GetUserByID(t.Context(), reg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, u.Status)
	require.Equal(t, "AI21CS0001", u.MatricNumber)
	require.Equal(t, domain.RoleStudent, u.Role)

	res, _ = a.submitLogin(email, testPassword, false)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "Please verify your email address before logging in.", res.apiError(t).Description)

	token := h.lastToken(t, email)

	res = a.get("/verify-email?token=bogus")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = a.get("/verify-email?token=" + url.QueryEscape(token))
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.body))

	// Links are single use.
	res = a.get("/verify-email?token=" + url.QueryEscape(token))
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	a.login(email)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	h.user(t, "taken@uni.test", domain.RoleStudent)

	tests := []struct {
		name   string
		mutate func(url.Values)
		field  string
	}{
		{"bad name", func(v url.Values) { v.Set("name", "R2-D2") }, "name"},
		{"bad email", func(v url.Values) { v.Set("email", "aina@") }, "email"},
		{"taken email", func(v url.Values) { v.Set("email", "taken@uni.test") }, "email"},
		{"bad matric", func(v url.Values) { v.Set("matric_number", "12345") }, "matric_number"},
		{"unknown department", func(v url.Values) { v.Set("department", "LAW") }, "department"},
		{"terms not accepted", func(v url.Values) { v.Del("accept_terms") }, "accept_terms"},
		{"mismatched passwords", func(v url.Values) { v.Set("confirm_password", "Other123!") }, "confirm_password"},
		{"weak password", func(v url.Values) {
			v.Set("password", "password")
			v.Set("confirm_password", "password")
		}, "password"},
	}

	a := h.agent(t)
	a.fetchCSRF()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := registrationForm()
			tt.mutate(form)
			res := a.post("/register", form)
			require.Equal(t, http.StatusBadRequest, res.StatusCode, string(res.body))
			e := res.apiError(t)
			require.Equal(t, authsdk.ErrorCodeValidation, e.Code)
			require.Equal(t, tt.field, e.Field)
		})
	}
}

func TestResendVerificationIsGeneric(t *testing.T) {
	h := newHarness(t)
	h.user(t, "pending@uni.test", domain.RoleStudent, func(u *domain.User) {
		u.Status = domain.StatusPending
		u.EmailVerified = false
	})

	a := h.agent(t)
	a.fetchCSRF()

	known := a.post("/verify-email/resend", url.Values{"email": {"pending@uni.test"}})
	require.Equal(t, http.StatusOK, known.StatusCode, string(known.body))
	unknown := a.post("/verify-email/resend", url.Values{"email": {"ghost@uni.test"}})
	require.Equal(t, http.StatusOK, unknown.StatusCode)
	require.Equal(t, string(known.body), string(unknown.body))

	_, ok := h.out.Last("pending@uni.test")
	require.True(t, ok)
	_, ok = h.out.Last("ghost@uni.test")
	require.False(t, ok)
}

func TestPasswordReset(t *testing.T) {
	h := newHarness(t)
	u := h.user(t, "amir@uni.test", domain.RoleStudent)

	signedIn := h.agent(t)
	signedIn.login("amir@uni.test")

	a := h.agent(t)
	a.fetchCSRF()

	known := a.post("/reset-password/request", url.Values{"email": {"amir@uni.test"}})
	require.Equal(t, http.StatusOK, known.StatusCode, string(known.body))
	unknown := a.post("/reset-password/request", url.Values{"email": {"ghost@uni.test"}})
	require.Equal(t, http.StatusOK, unknown.StatusCode)
	require.Equal(t, string(known.body), string(unknown.body))

	token := h.lastToken(t, "amir@uni.test")

	res := a.get("/reset-password?token=" + url.QueryEscape(token))
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = a.get("/reset-password?token=nope")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = a.post("/reset-password", url.Values{"token": {token}, "password": {"NewSecret1!"}, "confirm_password": {"Different1!"}})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "confirm_password", res.apiError(t).Field)

	res = a.post("/reset-password", url.Values{"token": {token}, "password": {"NewSecret1!"}, "confirm_password": {"NewSecret1!"}})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.body))

	// Every existing session ended with the old password.
	require.Equal(t, http.StatusUnauthorized, signedIn.get("/me").StatusCode)

	res = a.post("/reset-password", url.Values{"token": {token}, "password": {"Another1!"}, "confirm_password": {"Another1!"}})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = a.submitLogin("amir@uni.test", testPassword, false)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res, out := a.submitLogin("amir@uni.test", "NewSecret1!", false)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.body))
	require.Equal(t, authsdk.LoginStatusAuthenticated, out.Status)

	require.Equal(t, 1, h.countEvents(t, u.ID, domain.EventPasswordReset))
}
