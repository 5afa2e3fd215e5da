package biz

import "strings"

// campusKeywords 校园相关问题的触发词。命中任意一个即走检索增强路径。
var campusKeywords = []string{
	"srec", "sree rama", "rama engineering", "college", "tirupathi",
	"engineering", "jntua", "rami reddy", "principal", "department",
	"faculty", "admission", "courses", "placement", "campus", "fees",
	"hostel", "library", "laboratory", "sports",
	"hod", "chairman", "address", "contact", "phone", "email", "website",
}

// timeKeywords 时间/日期问题的触发词。
var timeKeywords = []string{
	"time", "current time", "ist", "indian standard time",
	"what time", "what's the time", "date", "today",
}

// IsCampusQuestion 判断消息是否与校园相关。匹配不区分大小写，按子串匹配。
func IsCampusQuestion(message string) bool {
	return matchesAny(message, campusKeywords)
}

// IsTimeQuestion 判断消息是否在询问当前时间或日期。
func IsTimeQuestion(message string) bool {
	return matchesAny(message, timeKeywords)
}

func matchesAny(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
