package engine

import (
	"fmt"
	"strings"
)

// Quarter 学季，按 Fall → Winter → Spring → Summer 循环
type Quarter string

const (
	Fall   Quarter = "Fall"
	Winter Quarter = "Winter"
	Spring Quarter = "Spring"
	Summer Quarter = "Summer"
)

// QuartersPerYear 每学年学季数
const QuartersPerYear = 4

var quarterOrder = []Quarter{Fall, Winter, Spring, Summer}

// Index Fall=0, Winter=1, Spring=2, Summer=3；未知学季返回 -1
func (q Quarter) Index() int {
	for i, v := range quarterOrder {
		if v == q {
			return i
		}
	}
	return -1
}

// Next 下一个学季（Summer 之后回到 Fall）
func (q Quarter) Next() Quarter {
	i := q.Index()
	if i < 0 {
		return Fall
	}
	return quarterOrder[(i+1)%QuartersPerYear]
}

// ParseQuarter 大小写不敏感地解析学季名
func ParseQuarter(s string) (Quarter, error) {
	s = strings.TrimSpace(s)
	for _, q := range quarterOrder {
		if strings.EqualFold(s, string(q)) {
			return q, nil
		}
	}
	return "", fmt.Errorf("未知学季: %q", s)
}

// TargetQuarters 当前学季到目标学季之间的学季数
//
//	(targetYear − currentYear) * 4 + (targetIndex − currentIndex)
//
// 结果 ≤ 0 表示毕业期限已过，调用方需自行拦截。
func TargetQuarters(current Quarter, currentYear int, target Quarter, targetYear int) int {
	return (targetYear-currentYear)*QuartersPerYear + (target.Index() - current.Index())
}
