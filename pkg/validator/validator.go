package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(username, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateUsername(username, errs)
	validateEmail(email, errs)
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(identifier, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(identifier) == "" {
		errs.Add("identifier", "Email or username is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

// ValidateUserPatch checks only the fields present in a partial update.
func ValidateUserPatch(username, email, password *string) ValidationErrors {
	errs := make(ValidationErrors)

	if username != nil {
		validateUsername(*username, errs)
	}
	if email != nil {
		validateEmail(*email, errs)
	}
	if password != nil {
		validatePassword(*password, errs)
	}

	return errs
}

func ValidateRecipe(title string, preparationTime, cookingTime, servings int, rating *int) ValidationErrors {
	errs := make(ValidationErrors)

	if len(strings.TrimSpace(title)) < 3 {
		errs.Add("title", "Title must be at least 3 characters long")
	}
	if preparationTime < 0 {
		errs.Add("preparation_time", "Preparation time cannot be negative")
	}
	if cookingTime < 0 {
		errs.Add("cooking_time", "Cooking time cannot be negative")
	}
	if servings < 0 {
		errs.Add("servings", "Servings cannot be negative")
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		errs.Add("rating", "Rating must be between 0 and 5")
	}

	return errs
}

// ValidateRecipePatch checks only the fields present in a partial update.
func ValidateRecipePatch(title *string, preparationTime, cookingTime, servings, rating *int) ValidationErrors {
	errs := make(ValidationErrors)

	if title != nil && len(strings.TrimSpace(*title)) < 3 {
		errs.Add("title", "Title must be at least 3 characters long")
	}
	if preparationTime != nil && *preparationTime < 0 {
		errs.Add("preparation_time", "Preparation time cannot be negative")
	}
	if cookingTime != nil && *cookingTime < 0 {
		errs.Add("cooking_time", "Cooking time cannot be negative")
	}
	if servings != nil && *servings < 0 {
		errs.Add("servings", "Servings cannot be negative")
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		errs.Add("rating", "Rating must be between 0 and 5")
	}

	return errs
}

func ValidateRatingScore(score int) ValidationErrors {
	errs := make(ValidationErrors)
	if score < 0 || score > 5 {
		errs.Add("score", "Rating must be between 0 and 5")
	}
	return errs
}

// NormalizeEmail lowercases the domain part and preserves the local part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func validateUsername(username string, errs ValidationErrors) {
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) > 255 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	} else if len(password) > 128 {
		errs.Add("password", "Password is too long")
	}
}
