package main

import (
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/decker502/walkers/pkg/game"
	"github.com/decker502/walkers/pkg/walker"
)

// Transition 一次状态变化
type Transition struct {
	AtMs  float64
	ID    int
	From  string
	To    string
	X     float64
	Dir   walker.Direction
	Timer float64
}

// Report 模拟结果
type Report struct {
	Ticks       int
	ElapsedMs   float64
	Transitions []Transition
	// TimeInState 每个行走者在各状态停留的时间（毫秒），下标为加入顺序
	TimeInState []map[string]float64
}

// simulate 以固定步长推进 totalMs，记录所有状态变化
//
// 时间戳经过 FrameClock，与窗口版本的 dt 上限一致。
func simulate(m *walker.Manager, clock *game.FrameClock, totalMs, stepMs float64) Report {
	walkers := m.Walkers()
	rep := Report{TimeInState: make([]map[string]float64, len(walkers))}
	for i := range rep.TimeInState {
		rep.TimeInState[i] = make(map[string]float64)
	}
	if stepMs <= 0 {
		return rep
	}

	clock.Start(0)
	prev := make([]string, len(walkers))
	for i, w := range walkers {
		prev[i] = w.State()
	}

	for now := stepMs; now <= totalMs; now += stepMs {
		dt := clock.Tick(now)
		for i, w := range walkers {
			rep.TimeInState[i][w.State()] += dt
		}

		m.Update(dt)
		rep.Ticks++
		rep.ElapsedMs = now

		for i, w := range walkers {
			if w.State() == prev[i] {
				continue
			}
			rep.Transitions = append(rep.Transitions, Transition{
				AtMs:  now,
				ID:    w.ID(),
				From:  prev[i],
				To:    w.State(),
				X:     w.X(),
				Dir:   w.Dir(),
				Timer: w.StateTimer(),
			})
			prev[i] = w.State()
		}
	}
	return rep
}

// Print 输出状态变化与汇总
func (r Report) Print(out io.Writer) {
	for _, t := range r.Transitions {
		fmt.Fprintf(out, "%9.1fms  #%d  %-5s -> %-5s  x=%6.1f dir=%-5s next=%6.0fms\n",
			t.AtMs, t.ID, t.From, t.To, t.X, t.Dir, t.Timer)
	}

	fmt.Fprintf(out, "\n%d ticks, %.1fms simulated, %d transitions\n", r.Ticks, r.ElapsedMs, len(r.Transitions))
	for i, spent := range r.TimeInState {
		states := make([]string, 0, len(spent))
		for s := range spent {
			states = append(states, s)
		}
		sort.Strings(states)

		fmt.Fprintf(out, "#%d", i+1)
		for _, s := range states {
			fmt.Fprintf(out, "  %s=%.0fms", s, spent[s])
		}
		fmt.Fprintln(out)
	}
}

// frameCanvas 记录最后一帧的绘制命令
type frameCanvas struct {
	ratio float64
	draws []walker.DrawCommand
}

func (c *frameCanvas) SetPixelRatio(ratio float64) { c.ratio = ratio }

func (c *frameCanvas) Clear() { c.draws = c.draws[:0] }

func (c *frameCanvas) DrawFrame(src image.Rectangle, dst walker.Rect) {
	c.draws = append(c.draws, walker.DrawCommand{Src: src, Dst: dst})
}
