package models

const (
	PermManageCourses = "manage-courses"
	PermManageQuizzes = "manage-quizzes"
	PermManageUsers   = "manage-users"
	PermUploadMedia   = "upload-media"
	PermViewProgress  = "view-progress"
	PermViewReports   = "view-reports"
	PermLearn         = "learn"
)

type Permission struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"size:191;not null;uniqueIndex:idx_permission_user_perm"`
	Role       string `json:"role"`
	Permission string `json:"permission" gorm:"type:varchar(64);not null;uniqueIndex:idx_permission_user_perm"` // e.g. "manage-courses"
}

// DefaultPermissions returns the permission strings granted to a role
func DefaultPermissions(role string) []string {
	if role == RoleAdmin {
		return []string{
			PermLearn,
			PermManageCourses,
			PermManageQuizzes,
			PermManageUsers,
			PermUploadMedia,
			PermViewProgress,
			PermViewReports,
		}
	}
	return []string{PermLearn}
}
