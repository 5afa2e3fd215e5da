package biz_test

import (
	"context"
	"fmt"

	"github.com/kart-io/campus-chat/pkg/llm"
)

// fakeEmbedder returns canned vectors by exact text lookup.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

// fakeChat replays a fixed reply and records the messages it was given.
type fakeChat struct {
	reply     string
	fragments []string
	err       error
	gotMsgs   []llm.Message
	models    []string
}

func (f *fakeChat) Chat(_ context.Context, messages []llm.Message, _ *llm.ChatOptions) (string, error) {
	f.gotMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeChat) ChatStream(_ context.Context, messages []llm.Message, _ *llm.ChatOptions, handler llm.StreamHandler) (string, error) {
	f.gotMsgs = messages
	var full string
	for _, frag := range f.fragments {
		full += frag
		if handler != nil {
			if err := handler(frag); err != nil {
				return full, err
			}
		}
	}
	return full, f.err
}

func (f *fakeChat) Name() string { return "fake" }

func (f *fakeChat) ListModels(_ context.Context) ([]string, error) {
	return f.models, nil
}
