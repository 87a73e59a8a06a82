package shaper

import (
	"sort"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

// OrderAssignableRoles moves the first role with the given archetype to the
// front. The remaining roles keep their relative order.
func OrderAssignableRoles(roles []models.Role, archetype string) []models.Role {
	out := make([]models.Role, len(roles))
	copy(out, roles)
	for i, role := range out {
		if role.Archetype != archetype {
			continue
		}
		if i > 0 {
			copy(out[1:i+1], out[:i])
			out[0] = role
		}
		break
	}
	return out
}

// AssignableRoles shapes the get_assignable_roles result.
func (s *Shaper) AssignableRoles(roles []models.Role) dto.AssignableRoles {
	ordered := OrderAssignableRoles(roles, s.studentArchetype)
	out := make([]dto.AssignableRole, 0, len(ordered))
	for _, role := range ordered {
		out = append(out, dto.AssignableRole{ID: role.ID, Name: roleName(role)})
	}
	return dto.AssignableRoles{AssignableRoles: out}
}

// RoleBreakdown counts the holders of each assignable role. Roles nobody
// holds are left out. The second result lists the held role names sorted.
func RoleBreakdown(assignable []models.Role, assignments []models.RoleAssignment) ([]dto.RoleCount, []string) {
	holders := make(map[int64]map[int64]struct{})
	for _, a := range assignments {
		if holders[a.RoleID] == nil {
			holders[a.RoleID] = make(map[int64]struct{})
		}
		holders[a.RoleID][a.UserID] = struct{}{}
	}

	counts := make([]dto.RoleCount, 0, len(assignable))
	names := make([]string, 0, len(assignable))
	for _, role := range assignable {
		n := len(holders[role.ID])
		if n == 0 {
			continue
		}
		name := roleName(role)
		counts = append(counts, dto.RoleCount{RoleName: name, RoleNumber: n})
		names = append(names, name)
	}
	sort.Strings(names)
	return counts, names
}

// userRoles groups role names by user. Names come from the assignable roles
// when known and from the assignment otherwise.
func userRoles(assignable []models.Role, assignments []models.RoleAssignment) map[int64][]string {
	names := make(map[int64]string, len(assignable))
	for _, role := range assignable {
		names[role.ID] = roleName(role)
	}
	byUser := make(map[int64][]string)
	for _, a := range assignments {
		name, ok := names[a.RoleID]
		if !ok {
			name = a.RoleName
		}
		byUser[a.UserID] = append(byUser[a.UserID], name)
	}
	return byUser
}

func roleName(role models.Role) string {
	if role.Name != "" {
		return role.Name
	}
	return role.Shortname
}
