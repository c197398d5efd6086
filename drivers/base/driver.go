package base

import (
	"sync"

	"github.com/inletio/inlet/types"
)

// Driver carries the pieces every source driver shares: the discovered stream
// cache and the state handle.
type Driver struct {
	cachedStreams sync.Map // locally cached streams; contains all discovered streams
	State         *types.State
}

func NewBase() *Driver {
	return &Driver{
		cachedStreams: sync.Map{},
	}
}

func (d *Driver) SetupState(state *types.State) {
	d.State = state
}

// GetStreams returns all the streams discovered from the source so far.
func (d *Driver) GetStreams() []*types.Stream {
	streams := []*types.Stream{}
	d.cachedStreams.Range(func(_, value any) bool {
		streams = append(streams, value.(*types.Stream))
		return true
	})

	return streams
}

func (d *Driver) AddStream(stream *types.Stream) {
	d.cachedStreams.Store(stream.ID(), stream)
}

func (d *Driver) GetStream(streamID string) (bool, *types.Stream) {
	val, found := d.cachedStreams.Load(streamID)
	if !found {
		return found, nil
	}

	return found, val.(*types.Stream)
}
