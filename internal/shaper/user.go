package shaper

import (
	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

// UserInfoInput collects the records the user view is built from.
type UserInfoInput struct {
	User        models.User
	Courses     []models.UserCourse
	Assignments []models.RoleAssignment
	Categories  CategoryIndex
	Settings    models.Settings
	SessionKey  string

	CanUpdate  bool
	CanDelete  bool
	CanLoginAs bool
}

// UserInformation shapes the get_user_information view.
func (s *Shaper) UserInformation(in UserInfoInput) dto.UserInformation {
	u := in.User

	rolesByCourse := make(map[int64][]string)
	for _, a := range in.Assignments {
		rolesByCourse[a.CourseID] = append(rolesByCourse[a.CourseID], a.RoleName)
	}

	courses := make([]dto.UserCourse, 0, len(in.Courses))
	levelOnes := make([]string, 0, len(in.Courses))
	levelTwos := make([]string, 0, len(in.Courses))
	for _, c := range in.Courses {
		if c.CategoryID == 0 {
			continue
		}
		one, two := in.Categories.Levels(c.CategoryID)
		roles := rolesByCourse[c.ID]
		if roles == nil {
			roles = []string{}
		}
		courses = append(courses, dto.UserCourse{
			ID:        c.ID,
			Category:  c.CategoryID,
			Shortname: c.Shortname,
			Fullname:  c.Fullname,
			StartDate: c.StartDate,
			Visible:   c.Visible,
			LevelOne:  one,
			LevelTwo:  two,
			Roles:     roles,
			EnrolID:   c.EnrolID,
		})
		levelOnes = append(levelOnes, one)
		levelTwos = append(levelTwos, two)
	}

	return dto.UserInformation{
		UserInformation: dto.UserDetails{
			ID:           u.ID,
			Username:     u.Username,
			Firstname:    u.Firstname,
			Lastname:     u.Lastname,
			Email:        u.Email,
			TimeCreated:  s.format.Timestamp(u.TimeCreated),
			TimeModified: s.format.Timestamp(u.TimeModified),
			LastLogin:    s.format.Timestamp(u.LastLogin),
			Lang:         u.Lang,
			Auth:         u.Auth,
			IDNumber:     u.IDNumber,
		},
		Config:                 userDetailsConfig(in.Settings.UserDetails),
		UsersCourses:           courses,
		UniqueLevelOnes:        UniqueNames(levelOnes),
		UniqueLevelTwoes:       UniqueNames(levelTwos),
		ProfileLink:            s.links.Profile(u.ID),
		EditUserLink:           gated(in.CanUpdate, s.links.EditUser(u.ID)),
		DeleteUserLink:         gated(in.CanDelete, s.links.DeleteUser(u.ID, in.SessionKey)),
		LoginAsLink:            gated(in.CanLoginAs, s.links.LoginAs(u.ID, in.SessionKey)),
		IsAllowedToUpdateUsers: in.CanUpdate,
		LevelLabels:            LevelLabels(in.Settings.LevelLabels),
	}
}

func userDetailsConfig(t models.UserDetailToggles) dto.UserDetailsConfig {
	return dto.UserDetailsConfig{
		ShowUsername:     t.Username,
		ShowIDNumber:     t.IDNumber,
		ShowFirstname:    t.Firstname,
		ShowLastname:     t.Lastname,
		ShowMailAddress:  t.MailAddress,
		ShowTimeCreated:  t.TimeCreated,
		ShowTimeModified: t.TimeModified,
		ShowLastLogin:    t.LastLogin,
	}
}
