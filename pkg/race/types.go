package race

// Category is a race division tag such as "M15" or "W18"
type Category string

// DefaultCategories is the fixed set of divisions ranked when no override is configured
var DefaultCategories = []Category{"M15", "M16", "M18", "W15", "W16", "W18"}

// Record is a single athlete as it appears in the race data
type Record struct {
	Bib        int      `json:"Нагрудный номер" bson:"Нагрудный номер"`
	GivenName  string   `json:"Имя" bson:"Имя"`
	FamilyName string   `json:"Фамилия" bson:"Фамилия"`
	Category   Category `json:"Категория" bson:"Категория"`
	Start      string   `json:"Время старта" bson:"Время старта"`
	Finish     string   `json:"Время финиша" bson:"Время финиша"`
}

// FullName returns the display name used in results
func (r Record) FullName() string {
	return r.GivenName + " " + r.FamilyName
}

// Entry is the slimmed record that goes into a category bucket
type Entry struct {
	Bib     int
	Name    string
	Elapsed string
}

// Result is one ranked athlete in a category's output
type Result struct {
	Bib       int     `json:"Нагрудный номер"`
	Name      string  `json:"Имя и Фамилия"`
	Elapsed   string  `json:"Время"`
	Placement int     `json:"Место"`
	Prize     *string `json:"Приз,omitempty"`
}

// PrizeTable maps a placement to its prize label for one category
type PrizeTable map[int]string
