package entities

// Role is a user's role as reported by the user directory.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// User is the subset of the user directory record this service consumes.
type User struct {
	ID          int64  `json:"id" yaml:"id"`
	Username    string `json:"username" yaml:"username"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Role        Role   `json:"role" yaml:"role"`
}

// ActivityTypeLesson marks lesson plan activities listed in event summaries.
const ActivityTypeLesson = "LESSON"

type Activity struct {
	Type  string `json:"type" yaml:"type"`
	Title string `json:"title" yaml:"title"`
}

type LessonPlan struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Presentable bool       `json:"presentable" yaml:"presentable"`
	Activities  []Activity `json:"activities" yaml:"activities"`
}

// LessonTitles returns the titles of the plan's lesson activities in order.
func (lp *LessonPlan) LessonTitles() []string {
	titles := make([]string, 0, len(lp.Activities))
	for _, a := range lp.Activities {
		if a.Type == ActivityTypeLesson {
			titles = append(titles, a.Title)
		}
	}
	return titles
}

type Address struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Street     string `json:"street" yaml:"street"`
	City       string `json:"city" yaml:"city"`
	State      string `json:"state" yaml:"state"`
	PostalCode string `json:"postalCode" yaml:"postalCode"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   Role
}
