// Политика доступа: чистые предикаты над ролями и пользователями.
// Никаких побочных эффектов и обращений к БД — проверку выполняет
// вызывающая сторона до любой мутации.
package auth

import "inspection-portal/internal/models"

// HasRole — иерархия ролей ADMIN ⊇ USER ⊇ VIEWER через порядок рангов.
func HasRole(actor models.User, required models.UserRole) bool {
	return actor.Role.Rank() >= required.Rank() && required.Valid()
}

// CanEdit — право создавать и изменять проверки и чек-листы.
func CanEdit(actor models.User) bool {
	return HasRole(actor, models.RoleUser)
}

// CanManageUsers — управление пользователями доступно только админу.
func CanManageUsers(actor models.User) bool {
	return HasRole(actor, models.RoleAdmin)
}

// CanMutateUser — смена роли, блокировка и удаление. Себя трогать
// нельзя независимо от роли; смена собственного пароля — отдельная
// операция и этим предикатом не ограничивается.
func CanMutateUser(actor, target models.User) bool {
	if actor.ID == target.ID {
		return false
	}
	return CanManageUsers(actor)
}

// IsAuthenticated — заблокированный пользователь не считается
// аутентифицированным даже при валидной сессии.
func IsAuthenticated(user *models.User) bool {
	return user != nil && user.Enabled
}
