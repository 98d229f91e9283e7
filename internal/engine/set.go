package engine

import (
	"sort"
	"strings"
)

// courseSet 课程代码集合
type courseSet map[string]struct{}

// newCourseSet 由代码列表构建集合；代码统一去空格、转大写
func newCourseSet(codes ...[]string) courseSet {
	s := make(courseSet)
	for _, list := range codes {
		for _, c := range list {
			if c = NormalizeCode(c); c != "" {
				s[c] = struct{}{}
			}
		}
	}
	return s
}

func (s courseSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s courseSet) add(code string) {
	s[code] = struct{}{}
}

// sorted 返回排序后的代码列表
func (s courseSet) sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NormalizeCode 规范化课程代码："cs 31" → "CS31"
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// NormalizeCodes 规范化并去重，保持首次出现的顺序
func NormalizeCodes(codes []string) []string {
	seen := make(courseSet, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = NormalizeCode(c)
		if c == "" || seen.has(c) {
			continue
		}
		seen.add(c)
		out = append(out, c)
	}
	return out
}
