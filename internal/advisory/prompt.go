package advisory

import (
	"strings"

	"familyledger/internal/core"
)

const (
	promptHeader = "你是一个专业的家庭理财管家。这是我家的账单：\n"
	promptFooter = "\n\n请分析消费结构，指出不合理支出，并给出具体的省钱建议。请用活泼的口吻，多用 Emoji，300字以内。"
)

// SummarizeTransactions renders one line per transaction for the prompt:
//
//	2025-03-01 我 支出 50元 [餐饮]: 早餐
func SummarizeTransactions(txs []core.Transaction) string {
	lines := make([]string, 0, len(txs))
	for _, t := range txs {
		kind := "收入"
		if t.Type == core.Expense {
			kind = "支出"
		}
		lines = append(lines, t.Date.Format("2006-01-02")+" "+t.MemberName+" "+kind+" "+
			t.Amount.Format()+"元 ["+t.Category+"]: "+t.Description)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt wraps the transaction summary in the advisor instruction.
func BuildPrompt(txs []core.Transaction) string {
	return promptHeader + SummarizeTransactions(txs) + promptFooter
}
