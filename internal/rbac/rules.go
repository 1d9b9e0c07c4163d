package rbac

// Default policy. Learners own their notes, quizzes and reviews; teachers
// additionally see everyone's results.
var RolePermissions = map[string][]string{
	"learner": {
		"note:create",
		"note:view",
		"note:delete",
		"quiz:generate",
		"quiz:view",
		"quiz:submit",
		"result:view-own",
		"review:run",
		"review:view-own",
		"user:change_password",
	},
	"teacher": {
		"note:*",
		"quiz:*",
		"result:view-all",
		"review:view-all",
		"users:list",
		"user:change_password",
		"sync:pull",
	},
	"admin": {
		"*", // everything
	},
}
