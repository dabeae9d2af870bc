package ledger

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"familyledger/internal/core"
)

// DefaultCategories returns the category set every new ledger starts with.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "1", Name: "餐饮", Icon: "🍔", Color: "bg-orange-500"},
		{ID: "2", Name: "购物", Icon: "🛍️", Color: "bg-pink-500"},
		{ID: "3", Name: "交通", Icon: "🚗", Color: "bg-blue-500"},
		{ID: "4", Name: "住房", Icon: "🏠", Color: "bg-indigo-500"},
		{ID: "5", Name: "娱乐", Icon: "🎮", Color: "bg-purple-500"},
		{ID: "6", Name: "医疗", Icon: "🏥", Color: "bg-red-500"},
		{ID: "7", Name: "教育", Icon: "📚", Color: "bg-teal-500"},
		{ID: "8", Name: "工资", Icon: "💰", Color: "bg-green-500"},
		{ID: "9", Name: "奖金", Icon: "🏆", Color: "bg-yellow-500"},
		{ID: "10", Name: "其他", Icon: "✨", Color: "bg-gray-500"},
	}
}

func defaultMember() core.FamilyMember {
	return core.FamilyMember{
		ID:     "m1",
		Name:   "我",
		Role:   core.RoleAdmin,
		Avatar: "https://picsum.photos/seed/user1/100/100",
	}
}

func seedMembers() []core.FamilyMember {
	return []core.FamilyMember{
		defaultMember(),
		{ID: "m2", Name: "另一半", Role: core.RoleMember, Avatar: "https://picsum.photos/seed/user2/100/100"},
		{ID: "m3", Name: "孩子", Role: core.RoleMember, Avatar: "https://picsum.photos/seed/user3/100/100"},
	}
}

// seedLedger builds the session-start ledger with sample transactions dated
// at session start, most recent first.
func seedLedger() core.Ledger {
	now := time.Now()
	return core.Ledger{
		ID:         uuid.NewString(),
		Name:       "家庭账本",
		Icon:       "🏠",
		Members:    seedMembers(),
		Categories: DefaultCategories(),
		Transactions: []core.Transaction{
			{ID: "t3", Amount: core.Money{Cents: 350000}, Type: core.Expense, Category: "住房", Description: "房租", Date: now, MemberID: "m2", MemberName: "另一半"},
			{ID: "t2", Amount: core.Money{Cents: 1200000}, Type: core.Income, Category: "工资", Description: "月度工资", Date: now, MemberID: "m1", MemberName: "我"},
			{ID: "t1", Amount: core.Money{Cents: 5000}, Type: core.Expense, Category: "餐饮", Description: "早餐", Date: now, MemberID: "m1", MemberName: "我"},
		},
	}
}

// CategoriesFromFile reads a category seed file, one "name|icon|color" per
// line. Blank lines and '#' comments are skipped. A missing or empty file
// yields nil, which callers treat as "use the defaults".
func CategoriesFromFile(path string) []core.Category {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []core.Category
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		c := core.Category{ID: uuid.NewString(), Name: strings.TrimSpace(parts[0])}
		if c.Name == "" {
			continue
		}
		if len(parts) > 1 {
			c.Icon = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			c.Color = strings.TrimSpace(parts[2])
		}
		out = append(out, c)
	}
	return out
}
