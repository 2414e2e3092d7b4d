package rbac

const (
	RoleStudent = "student"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// RolePermissions is the default policy. Creators author quizzes and may preview
// them the way a student would.
var RolePermissions = map[string][]string{
	RoleStudent: {
		"quiz:take",
		"quiz:submit",
		"progress:view",
		"progress:update",
	},
	RoleCreator: {
		"quiz:create",
		"quiz:update",
		"quiz:view",
		"quiz:validate",
		"quiz:take",
		"progress:view",
		"events:view",
	},
	RoleAdmin: {
		"*",
	},
}
