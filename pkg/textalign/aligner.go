// Package textalign 基于编辑距离的参考文本与识别文本对齐
package textalign

// Unmatched 参考词没有对应识别词
const Unmatched = -1

const (
	opMatch uint8 = iota
	opSubstitute
	opDelete // 参考词未出现在识别结果中
	opInsert // 识别词没有对应参考词
)

// cell 编辑代价相同时匹配数多者优先
type cell struct {
	cost    int
	matches int
}

func (c cell) better(o cell) bool {
	return c.cost < o.cost || (c.cost == o.cost && c.matches > o.matches)
}

// Aligner 编辑距离对齐器。替换和增删代价均为1，匹配代价为0；
// 只有拼写相同的词才会被记为匹配，结果下标严格递增
type Aligner struct{}

// New 创建对齐器
func New() *Aligner {
	return &Aligner{}
}

// Align 返回与reference等长的下标序列
func (a *Aligner) Align(reference, hypothesis []string) []int {
	n, m := len(reference), len(hypothesis)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = Unmatched
	}
	if n == 0 || m == 0 {
		return ids
	}

	// 只保留两行代价，回溯用完整的操作矩阵
	prev := make([]cell, m+1)
	curr := make([]cell, m+1)
	ops := make([][]uint8, n+1)
	ops[0] = make([]uint8, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = cell{cost: j}
		ops[0][j] = opInsert
	}

	for i := 1; i <= n; i++ {
		ops[i] = make([]uint8, m+1)
		curr[0] = cell{cost: i}
		ops[i][0] = opDelete
		for j := 1; j <= m; j++ {
			diag := prev[j-1]
			op, best := opSubstitute, cell{diag.cost + 1, diag.matches}
			if reference[i-1] == hypothesis[j-1] {
				op, best = opMatch, cell{diag.cost, diag.matches + 1}
			}
			if c := (cell{prev[j].cost + 1, prev[j].matches}); c.better(best) {
				op, best = opDelete, c
			}
			if c := (cell{curr[j-1].cost + 1, curr[j-1].matches}); c.better(best) {
				op, best = opInsert, c
			}
			curr[j] = best
			ops[i][j] = op
		}
		prev, curr = curr, prev
	}

	for i, j := n, m; i > 0 || j > 0; {
		switch ops[i][j] {
		case opMatch:
			ids[i-1] = j - 1
			i, j = i-1, j-1
		case opSubstitute:
			i, j = i-1, j-1
		case opDelete:
			i--
		case opInsert:
			j--
		}
	}
	return ids
}

// Unaligned 较长一侧中没有匹配上的词数
func Unaligned(reference, hypothesis []string, ids []int) int {
	matched := 0
	for _, id := range ids {
		if id != Unmatched {
			matched++
		}
	}
	return max(len(reference), len(hypothesis)) - matched
}
