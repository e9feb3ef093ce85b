package bot

import (
	"fmt"
	"strings"

	"github.com/example/flashdrill/internal/drill"
	"github.com/example/flashdrill/internal/excel"
	"github.com/example/flashdrill/pkg/models"
)

func formatPrompt(sess *drill.Session, item models.Item) string {
	var sb strings.Builder
	n, total := sess.Position()
	if sess.Mode() == models.ModePractice {
		fmt.Fprintf(&sb, "Round %d · %d / %d · %d left\n\n", sess.Round(), n, total, sess.Remaining())
	} else {
		fmt.Fprintf(&sb, "%d / %d\n\n", n, total)
	}
	sb.WriteString(item.Prompt)
	if item.Topic != "" {
		fmt.Fprintf(&sb, "\n\n🏷 %s", item.Topic)
	}
	return sb.String()
}

func formatFeedback(result drill.AnswerResult) string {
	if result.Correct {
		return fmt.Sprintf("✅ Correct! Next review in %s.", formatDays(result.Progress.Interval))
	}
	text := fmt.Sprintf("❌ Incorrect. The answer is: %s", result.Item.Answer)
	if result.Item.Example != "" {
		text += "\n💬 " + result.Item.Example
	}
	return text
}

func formatDays(interval float64) string {
	if interval == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%g days", interval)
}

func formatSessionEnd(result models.SessionResult) string {
	if result.Mode == models.ModePractice && result.Answered > 0 {
		return fmt.Sprintf("🏆 Practice complete! %d of %d answers were correct.", result.Correct, result.Answered)
	}
	return fmt.Sprintf("🏁 Session finished: %d of %d correct.", result.Correct, result.Answered)
}

func formatSummary(summary models.Summary, due, weakShown int) string {
	var sb strings.Builder
	sb.WriteString("📊 Your progress\n\n")
	fmt.Fprintf(&sb, "Total items: %d\n", summary.TotalWords)
	fmt.Fprintf(&sb, "Attempted: %d\n", summary.AttemptedWords)
	fmt.Fprintf(&sb, "Mastered: %d\n", summary.MasteredWords)
	fmt.Fprintf(&sb, "Due now: %d\n", due)

	if len(summary.ConsistentlyWrong) > 0 {
		sb.WriteString("\n⚠️ Keep practicing:\n")
		for i, r := range summary.ConsistentlyWrong {
			if i == weakShown {
				fmt.Fprintf(&sb, "…and %d more\n", len(summary.ConsistentlyWrong)-weakShown)
				break
			}
			fmt.Fprintf(&sb, "• %s → %s (%d wrong, %s)\n",
				r.Item.Prompt, r.Item.Answer, r.IncorrectAttempts, formatPercentage(r))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPercentage(r models.ItemReport) string {
	if !r.CorrectnessPercentage.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%d%% correct", r.CorrectnessPercentage.Int64)
}

func formatCard(item models.Item, pos, total int, flipped bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 %d / %d\n\n%s", pos, total, item.Prompt)
	if flipped {
		fmt.Fprintf(&sb, "\n\n➡️ %s", item.Answer)
		if item.Example != "" {
			fmt.Fprintf(&sb, "\n💬 %s", item.Example)
		}
	}
	return sb.String()
}

func formatImportResult(result *excel.ImportResult) string {
	text := fmt.Sprintf("📥 Import finished: %d imported, %d skipped.", result.Imported, result.Skipped)
	const maxErrors = 5
	for i, e := range result.Errors {
		if i == maxErrors {
			text += fmt.Sprintf("\n…and %d more", len(result.Errors)-maxErrors)
			break
		}
		text += "\n• " + e
	}
	return text
}
