package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultWalkerConfig 测试内置默认配置有效且符合设计值
func TestDefaultWalkerConfig(t *testing.T) {
	cfg := DefaultWalkerConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultWalkerConfig().Validate() error: %v", err)
	}

	b := cfg.Behavior
	if b.Margin != 12 || b.MinTravel != 30 || b.MaxWalk != 600 {
		t.Errorf("unexpected distance defaults: margin=%v minTravel=%v maxWalk=%v", b.Margin, b.MinTravel, b.MaxWalk)
	}
	if b.FrameDurationMs != 120 {
		t.Errorf("FrameDurationMs = %v, want 120", b.FrameDurationMs)
	}
	if got := b.SleepFrameDurationMs(); got != 720 {
		t.Errorf("SleepFrameDurationMs() = %v, want 720", got)
	}
	if b.SleepChance != 0.25 {
		t.Errorf("SleepChance = %v, want 0.25", b.SleepChance)
	}
	if cfg.Loop.MaxStepMs != 50 {
		t.Errorf("MaxStepMs = %v, want 50", cfg.Loop.MaxStepMs)
	}
	if cfg.Sheet.Cols != 4 || cfg.Sheet.Rows != 9 {
		t.Errorf("sheet grid = %dx%d, want 4x9", cfg.Sheet.Cols, cfg.Sheet.Rows)
	}
}

func TestRange(t *testing.T) {
	r := Range{Min: 800, Max: 2800}

	if got := r.At(0); got != 800 {
		t.Errorf("At(0) = %v, want 800", got)
	}
	if got := r.At(0.5); got != 1800 {
		t.Errorf("At(0.5) = %v, want 1800", got)
	}
	if !r.Contains(800) {
		t.Error("Contains(800) should be true (closed lower bound)")
	}
	if r.Contains(2800) {
		t.Error("Contains(2800) should be false (open upper bound)")
	}
}

func TestParseWalkerConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *WalkerConfig)
	}{
		{
			name: "完整配置",
			yamlContent: `
sheet:
  path: assets/images/spritesheet.webp
  cols: 4
  rows: 9
surface:
  width: 800
loop:
  maxStepMs: 40
behavior:
  margin: 8
  sleepChance: 0.5
walkers:
  - x: 100
    vx: 80
  - scale: 1.5
states:
  sniff:
    rows: { right: 5, left: 4 }
    frames: [0, 1]
    frameDurationMs: 400
`,
			validate: func(t *testing.T, cfg *WalkerConfig) {
				if cfg.Sheet.Path != "assets/images/spritesheet.webp" {
					t.Errorf("Sheet.Path = %q", cfg.Sheet.Path)
				}
				if cfg.Loop.MaxStepMs != 40 {
					t.Errorf("MaxStepMs = %v, want 40", cfg.Loop.MaxStepMs)
				}
				if cfg.Behavior.Margin != 8 {
					t.Errorf("Margin = %v, want 8", cfg.Behavior.Margin)
				}
				// 未出现的字段保持默认值
				if cfg.Behavior.MaxWalk != 600 {
					t.Errorf("MaxWalk = %v, want default 600", cfg.Behavior.MaxWalk)
				}
				if len(cfg.Walkers) != 2 {
					t.Fatalf("len(Walkers) = %d, want 2", len(cfg.Walkers))
				}
				if cfg.Walkers[0].X == nil || *cfg.Walkers[0].X != 100 {
					t.Errorf("Walkers[0].X = %v, want 100", cfg.Walkers[0].X)
				}
				if cfg.Walkers[1].X != nil {
					t.Errorf("Walkers[1].X should be unset")
				}
				sniff, ok := cfg.States["sniff"]
				if !ok {
					t.Fatal("state 'sniff' missing")
				}
				if sniff.Rows == nil || sniff.Rows.Right != 5 || sniff.Rows.Left != 4 {
					t.Errorf("sniff rows = %+v", sniff.Rows)
				}
			},
		},
		{
			name:        "空文件使用默认配置",
			yamlContent: "",
			validate: func(t *testing.T, cfg *WalkerConfig) {
				if len(cfg.Walkers) != 1 {
					t.Errorf("len(Walkers) = %d, want 1 default walker", len(cfg.Walkers))
				}
			},
		},
		{
			name:        "YAML 语法错误",
			yamlContent: "sheet: [unterminated",
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name:        "空行走者列表",
			yamlContent: "walkers: []",
			wantErr:     true,
			errContains: "no walkers",
		},
		{
			name:        "非正速度",
			yamlContent: "walkers:\n  - vx: 0",
			wantErr:     true,
			errContains: "vx must be > 0",
		},
		{
			name:        "非法区间",
			yamlContent: "behavior:\n  restMs: { min: 3000, max: 1000 }",
			wantErr:     true,
			errContains: "restMs",
		},
		{
			name:        "入睡概率越界",
			yamlContent: "behavior:\n  sleepChance: 1.5",
			wantErr:     true,
			errContains: "sleepChance",
		},
		{
			name:        "状态帧为空",
			yamlContent: "states:\n  odd:\n    fixedRow: 2\n    frames: []",
			wantErr:     true,
			errContains: "frames must not be empty",
		},
		{
			name:        "状态帧超出列数",
			yamlContent: "states:\n  odd:\n    fixedRow: 2\n    frames: [4]",
			wantErr:     true,
			errContains: "outside sheet columns",
		},
		{
			name:        "状态缺少行选择",
			yamlContent: "states:\n  odd:\n    frames: [0]",
			wantErr:     true,
			errContains: "rows or fixedRow",
		},
		{
			name:        "行号超出范围",
			yamlContent: "states:\n  odd:\n    fixedRow: 9\n    frames: [0]",
			wantErr:     true,
			errContains: "fixedRow 9",
		},
		{
			name:        "重定义 rest",
			yamlContent: "states:\n  rest:\n    rows: { right: 1, left: 3 }\n    frames: [0, 1, 2]\n    frameDurationMs: 10",
			wantErr:     true,
			errContains: "built-in state",
		},
		{
			name:        "重定义 walk",
			yamlContent: "states:\n  walk:\n    rows: { right: 1, left: 3 }\n    frames: [1, 2, 3]\n    frameDurationMs: 120",
			wantErr:     true,
			errContains: "state 'walk'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseWalkerConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestParseWalkerConfig_NoWalkersSentinel(t *testing.T) {
	_, err := ParseWalkerConfig([]byte("walkers: []"))
	if !errors.Is(err, ErrNoWalkers) {
		t.Errorf("expected ErrNoWalkers, got %v", err)
	}
}

// TestParseWalkerConfig_BuiltinStateSentinel states 中的内置状态名全部被拒绝
func TestParseWalkerConfig_BuiltinStateSentinel(t *testing.T) {
	for _, name := range BuiltinStateNames {
		yamlContent := "states:\n  " + name + ":\n    fixedRow: 2\n    frames: [0]"
		_, err := ParseWalkerConfig([]byte(yamlContent))
		if !errors.Is(err, ErrBuiltinState) {
			t.Errorf("state %q: expected ErrBuiltinState, got %v", name, err)
		}
	}
}

func TestLoadWalkerConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "walkers.yaml")
	content := "surface:\n  width: 640\nwalkers:\n  - x: 12\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadWalkerConfig(path)
	if err != nil {
		t.Fatalf("LoadWalkerConfig() error: %v", err)
	}
	if cfg.Surface.Width != 640 {
		t.Errorf("Surface.Width = %d, want 640", cfg.Surface.Width)
	}
}

func TestLoadWalkerConfig_MissingFile(t *testing.T) {
	_, err := LoadWalkerConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestInitialSurfaceHeight(t *testing.T) {
	cfg := DefaultWalkerConfig()

	tests := []struct {
		frameHeight int
		want        int
	}{
		{64, 84},
		{140, 160},
		{300, 160},
	}
	for _, tt := range tests {
		if got := cfg.InitialSurfaceHeight(tt.frameHeight); got != tt.want {
			t.Errorf("InitialSurfaceHeight(%d) = %d, want %d", tt.frameHeight, got, tt.want)
		}
	}
}

func TestStateNamesSorted(t *testing.T) {
	row := 2
	cfg := DefaultWalkerConfig()
	cfg.States = map[string]StateConfig{
		"zzz":   {FixedRow: &row, Frames: []int{0}},
		"alpha": {FixedRow: &row, Frames: []int{0}},
	}

	names := cfg.StateNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zzz" {
		t.Errorf("StateNames() = %v, want [alpha zzz]", names)
	}
}
