package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"study-strata/internal/dto"
	"study-strata/internal/engine"
)

var (
	titleColor   = color.New(color.FgMagenta, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func printTitle(format string, a ...any) {
	titleColor.Printf("\n═══ "+format+" ═══\n", a...)
}

func printError(format string, a ...any) {
	errorColor.Printf("✗ "+format+"\n", a...)
}

func printProgress(resp *dto.ProgressResponse) {
	if !resp.Available {
		warningColor.Printf("专业 %q 不在课程目录中\n", resp.Major)
		return
	}

	p := resp.Progress
	printTitle("%s 学业进度", p.Major)
	fmt.Printf("总学分 %d / %d  (%.1f%%)\n", p.TotalCredits, p.RequiredCredits, p.OverallProgress)
	if len(resp.APCredit.Courses) > 0 {
		infoColor.Printf("AP 抵免: %s（%d 学分）\n", strings.Join(resp.APCredit.Courses, ", "), resp.APCredit.Credits)
	}

	for _, c := range p.Categories {
		mark, clr := "○", warningColor
		if c.IsComplete {
			mark, clr = "●", successColor
		}
		clr.Printf("%s %-28s %3d / %-3d %5.1f%%\n", mark, c.Name, c.CompletedCredits, c.MinCredits, c.Progress)
		if len(c.RemainingRequired) > 0 {
			fmt.Printf("    待修必修: %s\n", strings.Join(c.RemainingRequired, ", "))
		}
		if c.MinElectives > 0 && len(c.CompletedElectives) < c.MinElectives {
			fmt.Printf("    选修 %d / %d\n", len(c.CompletedElectives), c.MinElectives)
		}
	}

	if resp.GPA != nil {
		clr := successColor
		if resp.Standing != engine.StandingGood {
			clr = errorColor
		}
		clr.Printf("GPA %.2f  %s\n", *resp.GPA, resp.Standing)
	}
	if g := resp.Graduation; g != nil {
		switch {
		case g.Eligible:
			successColor.Println("已满足毕业要求")
		case g.MissingGPA && len(g.UnmetCategories) == 0:
			warningColor.Println("课程要求已满足，缺少成绩记录，无法判定毕业资格")
		default:
			warningColor.Printf("尚未满足毕业要求：剩余 %d 学分，未完成类别 %d 个\n", g.RemainingCredits, len(g.UnmetCategories))
		}
	}
}

func printRecommendations(resp *dto.RecommendationResponse) {
	printTitle("选课建议")
	if len(resp.Recommendations) == 0 {
		warningColor.Println("暂无建议")
		return
	}
	for i, r := range resp.Recommendations {
		clr := infoColor
		switch r.Priority {
		case engine.PriorityHigh:
			clr = errorColor
		case engine.PriorityMedium:
			clr = warningColor
		}
		title := r.CourseCode
		if r.Title != "" {
			title += " " + r.Title
		}
		clr.Printf("%2d. [%-6s] %-8s %s\n", i+1, r.Priority, r.Quarter, title)
		fmt.Printf("    %s\n", r.Reason)
	}
}

func printSlot(resp *dto.SlotQueryResponse) {
	printTitle("%s %s", resp.Day, resp.Time)
	if len(resp.Courses) == 0 {
		infoColor.Println("该时段没有课程")
		return
	}
	for _, c := range resp.Courses {
		successColor.Printf("%-8s", c.Code)
		fmt.Printf(" %s  %s-%s\n", c.Name, c.StartTime, c.EndTime)
	}
}
