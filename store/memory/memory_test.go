package memory

import (
	"testing"

	"github.com/cvhariharan/actordir/store"
	"github.com/cvhariharan/actordir/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}
