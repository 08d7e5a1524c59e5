package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestSignUpInputValidation(t *testing.T) {
	assert.NoError(t, validateStruct(SignUpInput{Email: "user@test.com", Password: "Abc123", ConfirmPassword: "Abc123"}))

	cases := map[string]struct {
		in     SignUpInput
		fields []string
	}{
		"bad email":    {SignUpInput{Email: "user", Password: "Abc123", ConfirmPassword: "Abc123"}, []string{"email"}},
		"short":        {SignUpInput{Email: "a@b.co", Password: "Ab1", ConfirmPassword: "Ab1"}, []string{"password"}},
		"no digit":     {SignUpInput{Email: "a@b.co", Password: "Abcdef", ConfirmPassword: "Abcdef"}, []string{"password"}},
		"no letter":    {SignUpInput{Email: "a@b.co", Password: "123456", ConfirmPassword: "123456"}, []string{"password"}},
		"mismatch":     {SignUpInput{Email: "a@b.co", Password: "Abc123", ConfirmPassword: "Abc124"}, []string{"confirm_password"}},
		"empty fields": {SignUpInput{}, []string{"email", "password", "confirm_password"}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ElementsMatch(t, c.fields, fieldsOf(t, validateStruct(c.in)))
		})
	}
}

func TestProfileInputValidation(t *testing.T) {
	age, badAge := 30, 151
	gender, badGender := "Hide", "Other"
	short := "a"

	assert.NoError(t, validateStruct(ProfileInput{}))
	assert.NoError(t, validateStruct(ProfileInput{Age: &age, Gender: &gender}))
	assert.Equal(t, []string{"age"}, fieldsOf(t, validateStruct(ProfileInput{Age: &badAge})))
	assert.Equal(t, []string{"gender"}, fieldsOf(t, validateStruct(ProfileInput{Gender: &badGender})))
	assert.Equal(t, []string{"nickname"}, fieldsOf(t, validateStruct(ProfileInput{Nickname: &short})))
}

func TestScheduleInputValidation(t *testing.T) {
	ok := ScheduleInput{Work: "standup", Date: "2026-10-14", StartTime: "09:00", EndTime: "09:15"}
	assert.NoError(t, ok.validate())

	bad := ok
	bad.Date = "14/10/2026"
	assert.Equal(t, ValidationError, KindOf(bad.validate()))

	bad = ok
	bad.EndTime = "08:59"
	err := bad.validate()
	assert.Equal(t, ValidationError, KindOf(err))
	assert.Equal(t, []string{"end_time"}, fieldsOf(t, err))

	bad = ok
	bad.Work = ""
	assert.Equal(t, []string{"work"}, fieldsOf(t, bad.validate()))
}

func TestErrorKinds(t *testing.T) {
	err := storeFailure("write", errors.New("disk full"))
	assert.Equal(t, StoreFailure, KindOf(err))
	assert.True(t, errors.Is(err, &Error{Kind: StoreFailure}))
	assert.False(t, errors.Is(err, &Error{Kind: NotFound}))
	assert.Equal(t, StoreFailure, KindOf(errors.New("untyped")))
	assert.Equal(t, SelfRequest, KindOf(newError(SelfRequest, "x")))
}
