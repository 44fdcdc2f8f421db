package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"hearth/internal/forms"
	"hearth/internal/mail"
	"hearth/internal/models"
	"hearth/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// profileImages is the fixed pool a new account's avatar is drawn from.
var profileImages = []string{
	"/static/images/profile/anduin.jpeg",
	"/static/images/profile/garrosh.jpeg",
	"/static/images/profile/guldan.jpeg",
	"/static/images/profile/illidan.jpeg",
	"/static/images/profile/jaina.jpeg",
	"/static/images/profile/malfurion.png",
	"/static/images/profile/rexxar.jpeg",
	"/static/images/profile/thrall.jpeg",
	"/static/images/profile/uther.jpeg",
	"/static/images/profile/valeera.jpeg",
}

func (s *Server) registerSchema() forms.Schema {
	usernameTaken := func(ctx context.Context, value string) (bool, error) {
		user, err := s.users.GetByUsername(ctx, value)
		return user != nil, err
	}
	emailUsed := func(ctx context.Context, value string) (bool, error) {
		user, err := s.users.GetByEmail(ctx, value)
		return user != nil, err
	}

	return forms.Schema{
		Name: "register",
		Fields: []forms.Field{
			{Name: "name", Label: "Name", Validators: []forms.Validator{forms.Required("Name")}},
			{Name: "email", Label: "Email", Validators: []forms.Validator{
				forms.Required("Email"),
				forms.EmailShape(),
				forms.NotInUse(emailUsed, "An account has already been registered with this email."),
			}},
			{Name: "username", Label: "Username", Validators: []forms.Validator{
				forms.Required("Username"),
				forms.NotInUse(usernameTaken, "This username has already been taken. Please use another."),
			}},
			{Name: "password", Label: "Password", Validators: []forms.Validator{forms.Required("Password")}},
		},
	}
}

func loginSchema() forms.Schema {
	return forms.Schema{
		Name: "login",
		Fields: []forms.Field{
			{Name: "username", Label: "Username", Validators: []forms.Validator{forms.Required("Username")}},
			{Name: "password", Label: "Password", Validators: []forms.Validator{forms.Required("Password")}},
		},
	}
}

// RegisterPage renders the empty registration form.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, "register", fiber.Map{
		"Errors": map[string]string{},
		"Values": map[string]string{},
	})
}

// Register creates a new reader account and logs it in immediately.
func (s *Server) Register(c *fiber.Ctx) error {
	res := s.registerSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "register", fiber.Map{
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(res.Value("password")), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username:     res.Value("username"),
		Email:        res.Value("email"),
		Name:         res.Value("name"),
		ProfileImage: profileImages[rand.Intn(len(profileImages))],
		PasswordHash: string(hash),
		IsAdmin:      false,
	}

	if err := s.users.Create(c.Context(), user); err != nil {
		// Validation raced a concurrent registration; surface it on the form.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return s.render(c, "register", fiber.Map{
				"Errors": map[string]string{"username": appErr.Message},
				"Values": res.Values,
			})
		}
		return err
	}

	if err := session.Login(c, s.sessions, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// LoginPage renders the empty login form.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.Map{
		"Errors": map[string]string{},
		"Values": map[string]string{},
	})
}

// Login authenticates a reader by username and password. Unknown usernames
// and bad passwords flash distinct messages; neither reveals the stored hash.
func (s *Server) Login(c *fiber.Ctx) error {
	res := loginSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "login", fiber.Map{
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	user, err := s.users.GetByUsername(c.Context(), res.Value("username"))
	if err != nil {
		return err
	}
	if user == nil {
		return s.render(c, "login", fiber.Map{
			"Flash":  "That username does not exist. Please try again.",
			"Errors": map[string]string{},
			"Values": res.Values,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(res.Value("password"))); err != nil {
		return s.render(c, "login", fiber.Map{
			"Flash":  "Password incorrect. Please try again.",
			"Errors": map[string]string{},
			"Values": res.Values,
		})
	}

	if err := session.Login(c, s.sessions, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout destroys the session and returns to the home page.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := session.Logout(c, s.sessions); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ForgotPasswordPage renders the reset-request form.
func (s *Server) ForgotPasswordPage(c *fiber.Ctx) error {
	return s.render(c, "forgot_password", fiber.Map{
		"Errors": map[string]string{},
		"Values": map[string]string{},
	})
}

func forgotPasswordSchema() forms.Schema {
	return forms.Schema{
		Name: "forgot-password",
		Fields: []forms.Field{
			{Name: "email", Label: "Email", Validators: []forms.Validator{
				forms.Required("Email"), forms.EmailShape(),
			}},
		},
	}
}

// ForgotPassword emails a signed reset link when the address has an account.
// The response is identical either way so the form never confirms whether an
// email is registered.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	res := forgotPasswordSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "forgot_password", fiber.Map{
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	user, err := s.users.GetByEmail(c.Context(), res.Value("email"))
	if err != nil {
		return err
	}
	if user != nil {
		token, err := s.generateResetToken(user.ID)
		if err != nil {
			return models.NewInternalError(err)
		}
		link := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)
		if err := s.mailer.Send(c.Context(), mail.PasswordResetMessage(user.Email, link)); err != nil {
			return err
		}
	}

	if err := session.Flash(c, s.sessions, "If that email has an account, a reset link is on its way."); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func resetPasswordSchema() forms.Schema {
	return forms.Schema{
		Name: "reset-password",
		Fields: []forms.Field{
			{Name: "password", Label: "New password", Validators: []forms.Validator{forms.Required("New password")}},
		},
	}
}

// ResetPasswordPage renders the new-password form for a tokened link.
func (s *Server) ResetPasswordPage(c *fiber.Ctx) error {
	token := c.Query("token")
	if _, err := s.parseResetToken(token); err != nil {
		return models.NewForbiddenError("This reset link is invalid or has expired.")
	}
	return s.render(c, "reset_password", fiber.Map{
		"Token":  token,
		"Errors": map[string]string{},
	})
}

// ResetPassword verifies the signed token and stores the new password hash.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	token := c.FormValue("token")
	userID, err := s.parseResetToken(token)
	if err != nil {
		return models.NewForbiddenError("This reset link is invalid or has expired.")
	}

	res := resetPasswordSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "reset_password", fiber.Map{
			"Token":  token,
			"Errors": res.Errors,
		})
	}

	user, err := s.users.GetByID(c.Context(), userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(res.Value("password")), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(c.Context(), user); err != nil {
		return err
	}

	if err := session.Flash(c, s.sessions, "Your password has been reset. Please log in."); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

const resetTokenPurpose = "password_reset"

// generateResetToken creates a one-hour JWT bound to the user and the
// password-reset purpose, signed with the session secret.
func (s *Server) generateResetToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(uint64(userID), 10),
		"purpose": resetTokenPurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SessionSecret))
}

// parseResetToken validates signature, expiry and purpose and returns the
// user id the token was issued for.
func (s *Server) parseResetToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.config.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetTokenPurpose {
		return 0, fmt.Errorf("wrong token purpose")
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid token subject")
	}
	return uint(id), nil
}
