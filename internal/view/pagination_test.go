package view

import (
	"reflect"
	"testing"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int
		perPage   int
		wantPages int
	}{
		{"Primeira página", 1, 25, 10, 3},
		{"Página negativa", -1, 25, 10, 3},
		{"Muitos itens", 1, 100, 10, 10},
		{"Zero itens", 1, 0, 10, 0},
		{"PerPage padrão", 1, 60, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.total, tt.perPage)
			if p.TotalPages() != tt.wantPages {
				t.Errorf("TotalPages() = %v, want %v", p.TotalPages(), tt.wantPages)
			}
		})
	}
}

func TestPagination_Navigation(t *testing.T) {
	p := NewPagination(2, 30, 10) // Página 2 de 3

	if !p.HasPrevious() {
		t.Error("Deveria ter página anterior")
	}
	if !p.HasNext() {
		t.Error("Deveria ter próxima página")
	}
	if p.PreviousPage() != 1 {
		t.Errorf("PreviousPage() = %v, want 1", p.PreviousPage())
	}
	if p.NextPage() != 3 {
		t.Errorf("NextPage() = %v, want 3", p.NextPage())
	}
}

func TestPagination_NoResults(t *testing.T) {
	p := NewPagination(1, 0, 25)

	if p.HasPrevious() || p.HasNext() {
		t.Error("Sem resultados não deveria haver navegação")
	}
	if p.NextPage() != 1 || p.PreviousPage() != 1 {
		t.Errorf("NextPage() = %v, PreviousPage() = %v, want 1", p.NextPage(), p.PreviousPage())
	}
}

func TestPagination_Window(t *testing.T) {
	tests := []struct {
		name string
		p    Pagination
		size int
		want []int
	}{
		{"Start", NewPagination(1, 100, 10), 5, []int{1, 2, 3, 4, 5}},
		{"Middle", NewPagination(6, 100, 10), 5, []int{4, 5, 6, 7, 8}},
		{"End", NewPagination(10, 100, 10), 5, []int{6, 7, 8, 9, 10}},
		{"FewPages", NewPagination(1, 15, 10), 5, []int{1, 2}},
		{"Empty", NewPagination(1, 0, 10), 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Window(tt.size); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Window(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}
