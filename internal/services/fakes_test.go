package services

import (
	"context"
	"strings"
	"sync"

	"tripplanner/pkg/utils"
)

// scriptedChat answers Complete from a script. Once the script is used up the
// last entry repeats.
type scriptedChat struct {
	mu       sync.Mutex
	replies  []scriptedReply
	requests []utils.CompletionRequest
}

type scriptedReply struct {
	text string
	err  error
}

func newScriptedChat(replies ...scriptedReply) *scriptedChat {
	return &scriptedChat{replies: replies}
}

func (s *scriptedChat) Complete(_ context.Context, req utils.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return "", nil
	}
	idx := len(s.requests) - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	r := s.replies[idx]
	return r.text, r.err
}

func (s *scriptedChat) ModelName() string { return "test-model" }

func (s *scriptedChat) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakeSearch struct {
	answers map[string]string
	err     error
	block   bool
}

func (f *fakeSearch) Search(ctx context.Context, query string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	for k, v := range f.answers {
		if strings.Contains(strings.ToLower(query), strings.ToLower(k)) {
			return v, nil
		}
	}
	return "", nil
}

// fakeFactory hands out the same fakes regardless of key and records the keys
// it was asked for.
type fakeFactory struct {
	mu       sync.Mutex
	chat     *scriptedChat
	search   *fakeSearch
	verifier utils.KeyVerifierInterface
	streamer utils.StreamClientInterface
	keys     []string
}

func (f *fakeFactory) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
}

func (f *fakeFactory) Chat(apiKey string) utils.ChatClientInterface {
	f.record(apiKey)
	return f.chat
}

func (f *fakeFactory) Streamer(apiKey string) utils.StreamClientInterface {
	f.record(apiKey)
	return f.streamer
}

func (f *fakeFactory) Verifier(apiKey string) utils.KeyVerifierInterface {
	f.record(apiKey)
	return f.verifier
}

func (f *fakeFactory) Search(apiKey string) utils.SearchClientInterface {
	f.record(apiKey)
	if f.search == nil {
		return &fakeSearch{}
	}
	return f.search
}
