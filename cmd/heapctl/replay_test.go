package main

import (
	"strings"
	"testing"
)

func TestReplayCommand(t *testing.T) {
	tests := []struct {
		name           string
		trace          string
		check          bool
		quiet          bool
		json           bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "first fit",
			trace:       "firstfit.trace",
			wantContain: []string{"Replayed 7 operations: 4 blocks, heap 0x0-0x400"},
		},
		{
			name:           "first fit checked",
			trace:          "firstfit.trace",
			check:          true,
			wantContain:    []string{"Replayed 7 operations"},
			wantNotContain: []string{"Heap map"},
		},
		{
			name:  "trace dump",
			trace: "growth.trace",
			wantContain: []string{
				"Heap map",
				"free *",
				"Used blocks:    1  Free blocks:    1",
				"Max heap: 0x3400",
				"Replayed 5 operations: 2 blocks",
			},
		},
		{
			name:           "quiet",
			trace:          "growth.trace",
			quiet:          true,
			wantNotContain: []string{"Heap map", "Replayed"},
		},
		{
			name:           "json dump",
			trace:          "growth.trace",
			json:           true,
			wantContain:    []string{`"max_heap": 13312`, `"header_size": 40`},
			wantNotContain: []string{"Replayed"},
		},
		{
			name:        "corrupt header unchecked",
			trace:       "corrupt.trace",
			wantContain: []string{"Replayed 4 operations"},
		},
		{
			name:    "corrupt header checked",
			trace:   "corrupt.trace",
			check:   true,
			wantErr: true,
		},
		{
			name:    "syntax error",
			trace:   "bad.trace",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			replayCheck = tt.check
			quiet = tt.quiet
			jsonOut = tt.json

			output, err := captureOutput(t, func() error {
				return runReplay([]string{testTracePath(t, tt.trace)})
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("runReplay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestReplayCommand_Errors(t *testing.T) {
	resetFlags()

	_, err := captureOutput(t, func() error {
		return runReplay([]string{testTracePath(t, "bad.trace")})
	})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected syntax error on line 2, got %v", err)
	}

	_, err = captureOutput(t, func() error {
		return runReplay([]string{"testdata/missing.trace"})
	})
	if err == nil || !strings.Contains(err.Error(), "failed to open trace") {
		t.Fatalf("expected open error, got %v", err)
	}

	replayCheck = true
	_, err = captureOutput(t, func() error {
		return runReplay([]string{testTracePath(t, "corrupt.trace")})
	})
	if err == nil || !strings.Contains(err.Error(), "Headers at offset 0x8C") {
		t.Fatalf("expected header validation error, got %v", err)
	}
}

func TestReplayCommand_InMemory(t *testing.T) {
	resetFlags()
	inMemory = true

	output, err := captureOutput(t, func() error {
		return runReplay([]string{testTracePath(t, "growth.trace")})
	})
	if err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	assertContains(t, output, []string{"Max heap: 0x3400"})
}

func TestReplayCommand_HeapLimit(t *testing.T) {
	resetFlags()
	inMemory = true
	limit = 8192

	_, err := captureOutput(t, func() error {
		return runReplay([]string{testTracePath(t, "growth.trace")})
	})
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected growth failure on the realloc at line 4, got %v", err)
	}
}
