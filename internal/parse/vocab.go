package parse

// skillKeywords is the fixed, ordered vocabulary of known skill keywords.
// Matching is substring-based on normalized text; output preserves this order.
var skillKeywords = []string{
	// Backend
	"python", "django", "flask", "fastapi", "rest", "api", "graphql",
	"celery", "redis", "postgresql", "mysql", "sqlite", "mongodb",
	"docker", "kubernetes", "aws", "gcp", "azure",
	// Frontend
	"javascript", "typescript", "react", "angular", "vue", "html", "css",
	"bootstrap", "tailwind",
	// Data/AI
	"pandas", "numpy", "scikit-learn", "sklearn", "tensorflow", "pytorch",
	"power bi", "tableau", "excel", "nlp", "computer vision",
	// Testing / tools
	"pytest", "unittest", "selenium", "postman",
	"git", "github", "linux",
}

// categoryRules maps each project category to its trigger keywords. A category
// is included when any trigger appears in the document text or extracted skills.
var categoryRules = map[string][]string{
	"Backend":        {"django", "flask", "fastapi", "rest", "api", "postgresql", "mysql", "redis", "celery"},
	"Frontend":       {"react", "angular", "vue", "javascript", "typescript", "html", "css", "bootstrap", "tailwind"},
	"Cloud/DevOps":   {"aws", "gcp", "azure", "docker", "kubernetes", "ci/cd", "jenkins", "github actions", "terraform"},
	"Data/Analytics": {"power bi", "tableau", "pandas", "numpy", "excel", "analytics", "dashboard", "sql"},
	"AI/ML":          {"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn", "nlp", "computer vision"},
	"Testing/QA":     {"selenium", "postman", "pytest", "qa", "test case", "jira"},
	"Mobile":         {"android", "kotlin", "flutter", "dart", "firebase"},
	"Cybersecurity":  {"kali", "siem", "firewall", "pentest", "vulnerability", "ethical hacking"},
}

var monthsByName = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// fresherSignals are self-declared phrases indicating no prior professional experience.
var fresherSignals = []string{"fresher", "entry level", "recent graduate", "seeking entry-level"}
