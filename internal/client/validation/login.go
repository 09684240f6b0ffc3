package validation

type loginInput struct {
	Identifier string `form:"usernameOrEmail" validate:"required"`
	Password   string `form:"password"        validate:"required"`
}

// ValidateLogin requires both the identifier and the password.
func ValidateLogin(usernameOrEmail, password string) Errors {
	return checkStruct(loginInput{
		Identifier: blankToEmpty(usernameOrEmail),
		Password:   password,
	})
}
