package types

import (
	"fmt"
	"strings"

	"github.com/inletio/inlet/utils/logger"
)

type StreamCategories struct {
	SelectedStreams    []string
	IncrementalStreams []StreamInterface
	StandardStreams    []StreamInterface
	NewStreamsState    []*StreamState
}

// IdentifySelectedStreams validates the configured streams against the source
// discovered ones and splits them by sync mode. State of non-selected streams
// is dropped.
func IdentifySelectedStreams(catalog *Catalog, streams []*Stream, state *State) (*StreamCategories, error) {
	categories := &StreamCategories{
		SelectedStreams:    []string{},
		IncrementalStreams: []StreamInterface{},
		StandardStreams:    []StreamInterface{},
		NewStreamsState:    []*StreamState{},
	}

	selectedStreamsMap := make(map[string]StreamMetadata)
	for namespace, streamsMetadata := range catalog.SelectedStreams {
		for _, streamMetadata := range streamsMetadata {
			selectedStreamsMap[fmt.Sprintf("%s.%s", namespace, streamMetadata.StreamName)] = streamMetadata
		}
	}

	// quick state lookup by stream ID
	stateStreamMap := make(map[string]*StreamState)
	for _, stream := range state.Streams {
		stateStreamMap[fmt.Sprintf("%s.%s", stream.Namespace, stream.Stream)] = stream
	}

	sourceStreams := StreamsToMap(streams...)
	for _, elem := range catalog.Streams {
		sMetadata, selected := selectedStreamsMap[elem.ID()]
		if !(catalog.SelectedStreams == nil || selected) {
			logger.Debugf("Skipping stream %s.%s; not in selected streams.", elem.Namespace(), elem.Name())
			continue
		}

		source, found := sourceStreams[elem.ID()]
		if !found {
			logger.Warnf("Skipping; Configured Stream %s not found in source", elem.ID())
			continue
		}
		elem.StreamMetadata = sMetadata
		if err := elem.Validate(source); err != nil {
			logger.Warnf("Skipping; Configured Stream %s found invalid due to reason: %s", elem.ID(), err)
			continue
		}

		categories.SelectedStreams = append(categories.SelectedStreams, elem.ID())
		switch elem.Stream.SyncMode {
		case INCREMENTAL:
			categories.IncrementalStreams = append(categories.IncrementalStreams, elem)
			if streamState, exists := stateStreamMap[elem.ID()]; exists {
				categories.NewStreamsState = append(categories.NewStreamsState, streamState)
			}
		default:
			categories.StandardStreams = append(categories.StandardStreams, elem)
		}
	}

	// clean-up of previous state for non-selected streams
	state.Streams = categories.NewStreamsState

	if len(categories.SelectedStreams) == 0 {
		return nil, fmt.Errorf("no valid streams found in catalog")
	}

	logger.Infof("Valid selected streams are %s", strings.Join(categories.SelectedStreams, ", "))
	return categories, nil
}
