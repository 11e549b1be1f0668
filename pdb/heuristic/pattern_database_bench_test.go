package heuristic

import (
	"context"
	"fmt"
	"testing"

	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/tasks"
)

// Benchmark construction over growing abstract spaces
func BenchmarkBuild(b *testing.B) {
	for _, packages := range []int{2, 3, 4} {
		task := tasks.Logistics(4, packages)
		pattern := make(pdb.Pattern, task.NumVariables())
		for i := range pattern {
			pattern[i] = i
		}

		b.Run(fmt.Sprintf("logistics_4x%d", packages), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := NewPatternDatabase(task, pattern); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBuildAll(b *testing.B) {
	task := tasks.Logistics(4, 4)
	patterns := []pdb.Pattern{{0, 1, 2}, {0, 3, 4}, {1, 2, 3}, {0, 1, 4}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildAll(context.Background(), task, patterns, DefaultBuildOptions()); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark lookups of full states
func BenchmarkLookupDistance(b *testing.B) {
	task := tasks.Logistics(4, 3)
	db, err := NewPatternDatabase(task, pdb.Pattern{0, 1, 2})
	if err != nil {
		b.Fatal(err)
	}
	state := tasks.LogisticsInitial(4, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = db.LookupDistance(state)
	}
}
