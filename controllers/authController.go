package controllers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/middlewares"
	"github.com/nexcart/nexcart-api/models"
	"github.com/nexcart/nexcart-api/utils"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	otpTTL         = 10 * time.Minute
	resetTokenTTL  = time.Hour
	verifyTokenTTL = 24 * time.Hour

	// Standard response messages
	msgInvalidInput           = "invalid input"
	msgEmailAlreadyRegistered = "Email already registered"
	msgFailedToHashPassword   = "failed to hash password"
	msgInvalidCredentials     = "invalid email or password"
	msgAccountNotVerified     = "Account not verified, check your email to verify your account."
	msgFailedToGenerateToken  = "failed to generate token"
	msgInternalServerError    = "Internal server error"
	msgNoPendingRegistration  = "No pending registration found for this email"
	msgInvalidOtp             = "Invalid OTP"
	msgExpiredOtp             = "OTP has expired. Please try registration again."
	msgInvalidOrExpiredOtp    = "Invalid or expired OTP"
	msgOtpSent                = "OTP sent to your email. Please verify to complete registration."
	msgOtpResent              = "OTP resent successfully"
	msgInvalidVerifyToken     = "Invalid or expired verification link"
	msgVerifySuccess          = "Email verified successfully"
	msgResetLinkSent          = "Check your email for a password reset link."
	msgUserNotFound           = "user with this email does not exist"
	msgResetTokenError        = "There was an error trying to generate password reset link. Try again later."
	msgInvalidResetToken      = "Invalid or expired reset token"
	msgUnableToResetPassword  = "unable to reset password"
)

// pendingRegistration holds a not-yet-materialized signup while its OTP is
// outstanding. Lives only in process memory.
type pendingRegistration struct {
	Data   models.RegisterData
	Otp    string
	Expiry time.Time
}

var pendingRegistrations = cache.New(otpTTL, 15*time.Minute)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

func emailExists(email string) (bool, error) {
	var existingUser models.User
	result := initializers.DB.Where("email = ?", email).Find(&existingUser)
	return result.RowsAffected > 0, result.Error
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

func sendRegistrationOtpEmail(email, otp string) error {
	body := fmt.Sprintf("Your registration verification OTP is: %s\nThis OTP will expire in 10 minutes.\n\nPlease enter this OTP to complete your registration.", otp)
	return utils.SendEmail(email, "Registration Verification OTP", body)
}

func sendLoginOtpEmail(email, otp string) error {
	body := fmt.Sprintf("Your login OTP is: %s\nThis OTP will expire in 10 minutes.\n\nIf you didn't request this OTP, please ignore this email.", otp)
	return utils.SendEmail(email, "Login OTP", body)
}

func sendVerificationEmail(email, token string) error {
	link := os.Getenv("FRONTEND_URL") + "/verify-email?token=" + url.QueryEscape(token)
	body := "Please click the following link to verify your email: " + link
	return utils.SendEmail(email, "Email Verification", body)
}

func sendPasswordResetEmail(email, token string) error {
	link := os.Getenv("FRONTEND_URL") + "/reset-password?token=" + url.QueryEscape(token)
	body := "Please click the following link to reset your password: " + link
	return utils.SendEmail(email, "Password Reset", body)
}

// Register starts the two-phase OTP registration. The account is not
// created until the OTP is verified.
func Register(ctx *gin.Context) {
	var registerData models.RegisterData
	if err := ctx.ShouldBindJSON(&registerData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	exists, err := emailExists(registerData.Email)
	if err != nil {
		log.Println("Database error during user check:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusBadRequest, msgEmailAlreadyRegistered)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Println("OTP generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	pendingRegistrations.Set(registerData.Email, pendingRegistration{
		Data:   registerData,
		Otp:    otp,
		Expiry: time.Now().Add(otpTTL),
	}, otpTTL)

	// Best-effort: registration still proceeds if the mail fails.
	if err := sendRegistrationOtpEmail(registerData.Email, otp); err != nil {
		log.Println("Error sending registration OTP email:", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgOtpSent})
}

// VerifyRegistrationOtp materializes the pending registration into a user
// account once the OTP checks out.
func VerifyRegistrationOtp(ctx *gin.Context) {
	var verifyData struct {
		Email string `json:"email" binding:"required,email"`
		Otp   string `json:"otp" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&verifyData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	entry, found := pendingRegistrations.Get(verifyData.Email)
	if !found {
		sendErrorResponse(ctx, http.StatusBadRequest, msgNoPendingRegistration)
		return
	}
	pending := entry.(pendingRegistration)

	if verifyData.Otp != pending.Otp {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOtp)
		return
	}

	if time.Now().After(pending.Expiry) {
		pendingRegistrations.Delete(verifyData.Email)
		sendErrorResponse(ctx, http.StatusBadRequest, msgExpiredOtp)
		return
	}

	hashedPassword, err := hashPassword(pending.Data.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Email:         pending.Data.Email,
		Password:      hashedPassword,
		FirstName:     pending.Data.FirstName,
		LastName:      pending.Data.LastName,
		Phone:         pending.Data.Phone,
		Role:          "user",
		EmailVerified: true,
	}
	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	pendingRegistrations.Delete(verifyData.Email)

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"token": tokenString, "user": user})
}

// ResendRegistrationOtp regenerates the OTP for a pending registration.
func ResendRegistrationOtp(ctx *gin.Context) {
	var resendData struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&resendData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	entry, found := pendingRegistrations.Get(resendData.Email)
	if !found {
		sendErrorResponse(ctx, http.StatusBadRequest, msgNoPendingRegistration)
		return
	}
	pending := entry.(pendingRegistration)

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Println("OTP generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	pending.Otp = otp
	pending.Expiry = time.Now().Add(otpTTL)
	pendingRegistrations.Set(resendData.Email, pending, otpTTL)

	if err := sendRegistrationOtpEmail(resendData.Email, otp); err != nil {
		log.Println("Error sending registration OTP email:", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgOtpResent})
}

// Login handles email/password authentication.
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if !user.EmailVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAccountNotVerified)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString, "user": user})
}

// VerifyEmail confirms an email address using the verification token.
func VerifyEmail(ctx *gin.Context) {
	verificationToken := ctx.Param("verificationToken")

	var user models.User
	result := initializers.DB.Where("email_verification_token = ?", verificationToken).First(&user)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerifyToken)
		return
	}

	if user.EmailVerificationExpiry == nil || time.Now().After(*user.EmailVerificationExpiry) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerifyToken)
		return
	}

	updates := map[string]any{
		"email_verified":            true,
		"email_verification_token":  "",
		"email_verification_expiry": nil,
	}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Email verification error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgVerifySuccess})
}

// SendVerificationLink issues a fresh email-verification token for an
// unverified account.
func SendVerificationLink(ctx *gin.Context) {
	var verifyRequest struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&verifyRequest); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(verifyRequest.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	if user.EmailVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, "Email is already verified")
		return
	}

	verificationToken, err := utils.GenerateCode(16)
	if err != nil {
		log.Println("Token generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	expiry := time.Now().Add(verifyTokenTTL)
	updates := map[string]any{"email_verification_token": verificationToken, "email_verification_expiry": expiry}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Error saving verification token:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	// Verification mail must be delivered; surface the failure.
	if err := sendVerificationEmail(user.Email, verificationToken); err != nil {
		log.Println("Error sending verification email:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Verification email sent successfully"})
}

// SendOtp issues a login OTP to an existing user.
func SendOtp(ctx *gin.Context) {
	var otpRequest struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&otpRequest); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(otpRequest.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Println("OTP generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	expiry := time.Now().Add(otpTTL)
	updates := map[string]any{"otp": otp, "otp_expiry": expiry}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Error saving OTP:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := sendLoginOtpEmail(user.Email, otp); err != nil {
		log.Println("Error sending login OTP email:", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOtp exchanges a valid login OTP for a session token.
func VerifyOtp(ctx *gin.Context) {
	var verifyData struct {
		Email string `json:"email" binding:"required,email"`
		Otp   string `json:"otp" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&verifyData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(verifyData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	if user.Otp == "" || verifyData.Otp != user.Otp ||
		user.OtpExpiry == nil || time.Now().After(*user.OtpExpiry) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrExpiredOtp)
		return
	}

	updates := map[string]any{"otp": "", "otp_expiry": nil}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Error clearing OTP:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString, "user": user})
}

// SendPasswordResetLink mails a password reset token to the user.
func SendPasswordResetLink(ctx *gin.Context) {
	var forgotPasswordData struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&forgotPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(forgotPasswordData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	resetToken := uuid.NewString()
	expiry := time.Now().Add(resetTokenTTL)
	updates := map[string]any{"password_reset_token": resetToken, "password_reset_expiry": expiry}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Error saving reset token:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgResetTokenError)
		return
	}

	// Reset mail must be delivered; surface the failure.
	if err := sendPasswordResetEmail(user.Email, resetToken); err != nil {
		log.Println("Error sending password reset email:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgResetTokenError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

// ResetPassword sets a new password using a reset token.
func ResetPassword(ctx *gin.Context) {
	var resetPasswordData struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&resetPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	resetToken := ctx.Param("resetToken")
	var user models.User
	result := initializers.DB.Where("password_reset_token = ?", resetToken).First(&user)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetToken)
		return
	}

	if user.PasswordResetExpiry == nil || time.Now().After(*user.PasswordResetExpiry) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetToken)
		return
	}

	hashedPassword, err := hashPassword(resetPasswordData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	updates := map[string]any{
		"password":              hashedPassword,
		"password_reset_token":  "",
		"password_reset_expiry": nil,
	}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Error resetting password:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetProfile returns the authenticated user's account.
func GetProfile(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var user models.User
	if result := initializers.DB.First(&user, principal.ID); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the authenticated user's profile fields.
func UpdateProfile(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var profileData models.ProfileUpdateData
	if err := ctx.ShouldBindJSON(&profileData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if result := initializers.DB.First(&user, principal.ID); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	updates := map[string]any{
		"first_name": profileData.FirstName,
		"last_name":  profileData.LastName,
		"phone":      profileData.Phone,
		"address":    profileData.Address,
		"city":       profileData.City,
		"state":      profileData.State,
		"country":    profileData.Country,
		"zip_code":   profileData.ZipCode,
	}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("Profile update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	initializers.DB.First(&user, principal.ID)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}
