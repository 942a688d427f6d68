package utils

import "testing"

type registerForm struct {
	Username             string `validate:"required,username"`
	Email                string `validate:"required,emailok"`
	Password             string `validate:"required,pwdmin"`
	PasswordConfirmation string `validate:"required,eqfield=Password"`
	Date                 string `validate:"datefmt"`
}

func TestValidateStructAccepts(t *testing.T) {
	f := registerForm{
		Username:             "iron_wolf",
		Email:                "wolf@example.com",
		Password:             "hunter2hunter2",
		PasswordConfirmation: "hunter2hunter2",
		Date:                 "2025-06-15",
	}
	if err := ValidateStruct(&f); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestValidateStructRejects(t *testing.T) {
	base := registerForm{
		Username:             "iron_wolf",
		Email:                "wolf@example.com",
		Password:             "hunter2hunter2",
		PasswordConfirmation: "hunter2hunter2",
	}

	cases := []struct {
		name   string
		mutate func(*registerForm)
	}{
		{"missing username", func(f *registerForm) { f.Username = "" }},
		{"bad username chars", func(f *registerForm) { f.Username = "not ok!" }},
		{"bad email", func(f *registerForm) { f.Email = "nope" }},
		{"short password", func(f *registerForm) { f.Password = "short"; f.PasswordConfirmation = "short" }},
		{"mismatched confirmation", func(f *registerForm) { f.PasswordConfirmation = "different-pass" }},
		{"bad date shape", func(f *registerForm) { f.Date = "15/06/2025" }},
	}
	for _, c := range cases {
		f := base
		c.mutate(&f)
		if err := ValidateStruct(&f); err == nil {
			t.Fatalf("%s: expected error, got nil", c.name)
		}
	}
}
