package handlers

import (
	"net/http"
	"strings"

	"inspection-portal/internal/auth"
	"inspection-portal/internal/middleware"
	"inspection-portal/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 6

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("username asc").Find(&users).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "логин, имя, email и пароль обязательны"})
		return
	}
	if len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "пароль должен быть не короче 6 символов"})
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.UserRole(req.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверная роль"})
			return
		}
	}

	if taken, err := h.usernameTaken(req.Username, 0); err != nil {
		writeError(c, err)
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "пользователь с таким логином уже существует"})
		return
	}
	if taken, err := h.emailTaken(req.Email, 0); err != nil {
		writeError(c, err)
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "пользователь с таким email уже существует"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Enabled:      true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "логин не может быть пустым"})
			return
		}
		if username != user.Username {
			if taken, err := h.usernameTaken(username, user.ID); err != nil {
				writeError(c, err)
				return
			} else if taken {
				c.JSON(http.StatusConflict, gin.H{"error": "пользователь с таким логином уже существует"})
				return
			}
			user.Username = username
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email не может быть пустым"})
			return
		}
		if email != user.Email {
			if taken, err := h.emailTaken(email, user.ID); err != nil {
				writeError(c, err)
				return
			} else if taken {
				c.JSON(http.StatusConflict, gin.H{"error": "пользователь с таким email уже существует"})
				return
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "имя не может быть пустым"})
			return
		}
		user.Name = name
	}

	if err := h.db.Save(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите роль"})
		return
	}

	role := models.UserRole(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверная роль"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}

	actor, _ := middleware.Actor(c)
	if !auth.CanMutateUser(actor, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "нельзя изменить собственную роль"})
		return
	}

	user.Role = role
	if err := h.db.Save(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *UserHandler) UpdateEnabled(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите признак активности"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}

	actor, _ := middleware.Actor(c)
	if !auth.CanMutateUser(actor, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "нельзя заблокировать собственную учётную запись"})
		return
	}

	user.Enabled = *req.Enabled
	if err := h.db.Save(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}

	actor, _ := middleware.Actor(c)
	if !auth.CanMutateUser(actor, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "нельзя удалить собственную учётную запись"})
		return
	}

	// пользователь, назначенный ответственным, остаётся в системе
	var refs int64
	if err := h.db.Model(&models.Inspection{}).
		Where("responsible_user_id = ?", id).
		Count(&refs).Error; err != nil {
		writeError(c, err)
		return
	}
	if refs > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "пользователь назначен ответственным за проверки"})
		return
	}

	if err := h.db.Delete(&models.User{}, id).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword — сброс пароля администратором, старый пароль не нужен.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите новый пароль"})
		return
	}
	if len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "пароль должен быть не короче 6 символов"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	user.PasswordHash = string(hash)
	if err := h.db.Save(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword — смена собственного пароля, требует текущий пароль.
// Доступна любой аутентифицированной роли.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите текущий и новый пароль"})
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "пароль должен быть не короче 6 символов"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный текущий пароль"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", actor.ID).
		Update("password_hash", string(hash)).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) usernameTaken(username string, excludeID uint) (bool, error) {
	var count int64
	q := h.db.Model(&models.User{}).Where("lower(username) = lower(?)", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (h *UserHandler) emailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	q := h.db.Model(&models.User{}).Where("lower(email) = lower(?)", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
