package taxonomy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultLists() Lists {
	return Lists{
		Production: "沟通, 管理,输出,,编程 ",
		Investment: "运动,阅读,学习",
		Expense:    "睡觉,吃饭 ,通勤",
	}
}

func TestClassify(t *testing.T) {
	tx := New(defaultLists())

	cases := map[string]Category{
		"编程": Production,
		"管理": Production,
		"阅读": Investment,
		"吃饭": Expense,
		"其他": Expense,
		"":   Expense,
		"钓鱼": Expense,
	}

	for label, want := range cases {
		assert.Equal(t, want, tx.Classify(label), label)
	}
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	tx := New(Lists{Production: "Coding"})

	assert.Equal(t, Production, tx.Classify("Coding"))
	assert.Equal(t, Expense, tx.Classify("coding"))
}

func TestNilTaxonomyIsTotal(t *testing.T) {
	var tx *Taxonomy

	assert.Equal(t, Expense, tx.Classify("编程"))
	assert.Equal(t, Other, tx.Detect("编程"))
	assert.Empty(t, tx.Labels())
}

func TestLabelsKeepConfigurationOrder(t *testing.T) {
	tx := New(defaultLists())

	assert.Equal(t, []string{
		"沟通", "管理", "输出", "编程",
		"运动", "阅读", "学习",
		"睡觉", "吃饭", "通勤",
	}, tx.Labels())
}

func TestDuplicateLabelTakesLastCategory(t *testing.T) {
	tx := New(Lists{Production: "写作,阅读", Investment: "阅读"})

	assert.Equal(t, Investment, tx.Classify("阅读"))
	assert.Equal(t, []string{"写作", "阅读"}, tx.Labels())
}

func TestDetect(t *testing.T) {
	tx := New(defaultLists())

	assert.Equal(t, "阅读", tx.Detect("阅读《三体》"))
	assert.Equal(t, "编程", tx.Detect("写代码和编程"))
	assert.Equal(t, "沟通", tx.Detect("运动后沟通"), "first label in configuration order wins")
	assert.Equal(t, Other, tx.Detect("发呆"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList(" a, b,,c ,"))
	assert.Empty(t, SplitList(""))
}

func TestHolderSwapIsAtomic(t *testing.T) {
	first := New(Lists{Production: "编程"})
	second := New(Lists{Investment: "编程,阅读"})

	h := NewHolder(first)

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 1000; j++ {
				snap := h.Snapshot()
				c := snap.Classify("编程")
				// a snapshot is always one of the two complete taxonomies
				if snap.Known("阅读") {
					assert.Equal(t, Investment, c)
				} else {
					assert.Equal(t, Production, c)
				}
			}
		}()
	}

	prev := h.Swap(second)

	wg.Wait()

	assert.Same(t, first, prev)
	assert.Same(t, second, h.Snapshot())
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "生产", Production.Label())
	assert.Equal(t, "投资", Investment.Label())
	assert.Equal(t, "支出", Expense.Label())

	assert.True(t, Production.Productive())
	assert.True(t, Investment.Productive())
	assert.False(t, Expense.Productive())
}
