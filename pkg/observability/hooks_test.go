package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Contraction hooks
	p := NoopContractionHooks{}
	p.OnContractStart(ctx, 100, 3)
	p.OnRound(ctx, 1, 40, 60)
	p.OnContractComplete(ctx, 60, 1, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "contraction")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/contract")
	h.OnResponse(ctx, "POST", "/v1/contract", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Contraction().(NoopContractionHooks); !ok {
		t.Error("Contraction() should return NoopContractionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customContraction := &testContractionHooks{}
	SetContractionHooks(customContraction)
	if Contraction() != customContraction {
		t.Error("SetContractionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Contraction().(NoopContractionHooks); !ok {
		t.Error("Reset() should restore NoopContractionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testContractionHooks{}
	SetContractionHooks(custom)
	SetContractionHooks(nil)

	if Contraction() != custom {
		t.Error("SetContractionHooks(nil) should be ignored")
	}

	Reset()
}

type testContractionHooks struct{ NoopContractionHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
