package impostor

import "testing"

// scripted replays fixed draws, each reduced modulo n.
type scripted struct {
	t     *testing.T
	draws []int
	next  int
}

func script(t *testing.T, draws ...int) *scripted {
	return &scripted{t: t, draws: draws}
}

func (s *scripted) IntN(n int) int {
	if s.next >= len(s.draws) {
		s.t.Fatalf("scripted source exhausted after %d draws", len(s.draws))
	}
	v := s.draws[s.next] % n
	s.next++

	return v
}

func fruitCatalog() *Catalog {
	return NewCatalog([]WordEntry{
		{Word: "Manzana", Category: "Fruta"},
		{Word: "Perro", Category: "Animal"},
		{Word: "Gato", Category: "Animal"},
		{Word: "Cerveza", Category: "Bebida"},
	})
}

// must fails the test on error, so transitions can be chained as
// must(t)(s.Eliminate(1)).
func must(t *testing.T) func(State, error) State {
	t.Helper()

	return func(s State, err error) State {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		return s
	}
}

// started deals a round on a fresh four-player lobby restricted to Fruta,
// with the given impostor ids chosen by index into [1 2 3 4].
func started(t *testing.T, count int, picks ...int) State {
	t.Helper()
	c := fruitCatalog()
	s := NewState(c)
	s = must(t)(s.ClearCategories())
	s = must(t)(s.ToggleCategory(c, "Fruta"))
	s = must(t)(s.SetImpostorCount(count))

	draws := append([]int{0}, picks...)
	draws = append(draws, 0)

	return must(t)(s.StartRound(c, script(t, draws...)))
}
