// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package plugin_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/plugin/hostfunc"
	pluginlua "github.com/holomush/exthost/internal/plugin/lua"
	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/protocol"
)

// eventLog records service events for assertions.
type eventLog struct {
	mu     sync.Mutex
	states []json.RawMessage
	types  []service.EventType
}

func (l *eventLog) record(ev service.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = append(l.types, ev.Type)
	if ev.Type == service.EventStateChange {
		l.states = append(l.states, ev.State)
	}
}

func (l *eventLog) lastCount() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.states) == 0 {
		return -1
	}
	var s struct {
		Count float64 `json:"count"`
	}
	if err := json.Unmarshal(l.states[len(l.states)-1], &s); err != nil {
		return -1
	}
	return s.Count
}

func (l *eventLog) seen(t service.EventType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, got := range l.types {
		if got == t {
			return true
		}
	}
	return false
}

var _ = Describe("Echo extension", func() {
	var (
		ctx      context.Context
		loader   *plugin.Loader
		config   *shim.Configuration
		global   *shim.MapMemento
		services *shim.Services
		bundle   *plugin.Bundle
	)

	// newService loads the bundle afresh. Services are per host, global
	// state is shared across hosts.
	newService := func() (*service.Service, *eventLog) {
		ext, err := loader.Load(ctx, bundle)
		Expect(err).NotTo(HaveOccurred())
		services = shim.New(nil,
			shim.WithConfiguration(config),
			shim.WithMementos(global, shim.NewMapMemento(shim.ScopeWorkspace)))
		svc := service.New(ext, service.WithHostOptions(
			host.WithServices(services),
			host.WithIdentity(host.NewIdentity("exthost", "test")),
			host.WithExtensionRoot(shim.FileURI(bundle.Dir)),
		))
		log := &eventLog{}
		for _, t := range service.EventTypes {
			svc.On(t, log.record)
		}
		return svc, log
	}

	BeforeEach(func() {
		ctx = context.Background()
		enforcer := capability.NewEnforcer()
		config = shim.NewConfiguration()
		loader = plugin.NewLoader(host.APIVersion,
			plugin.WithRuntime(plugin.TypeLua, pluginlua.NewRuntime(hostfunc.New(enforcer))),
			plugin.WithEnforcer(enforcer),
			plugin.WithConfiguration(config),
		)
		global = shim.NewMapMemento(shim.ScopeGlobal)
		DeferCleanup(func() { Expect(loader.Close(ctx)).To(Succeed()) })

		bundles, err := plugin.Discover(ctx, pluginsDir)
		Expect(err).NotTo(HaveOccurred())
		for _, b := range bundles {
			if b.Manifest.ID() == "holomush.echo" {
				bundle = b
			}
		}
		Expect(bundle).NotTo(BeNil(), "echo bundle not discovered")
	})

	It("applies contributed configuration defaults on load", func() {
		_, err := loader.Load(ctx, bundle)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.String("echo.prefix", "")).To(Equal("echo: "))
		Expect(loader.Loaded()).To(ContainElement("holomush.echo"))
	})

	It("runs a full lifecycle through the service", func() {
		svc, log := newService()

		Expect(svc.Initialize(ctx)).To(Succeed())
		Expect(log.seen(service.EventReady)).To(BeTrue())
		Eventually(log.lastCount).Should(BeNumerically("==", 0))

		Expect(svc.SendWebviewMessage(ctx, protocol.MustNew(protocol.TypeWebviewDidLaunch, nil))).To(Succeed())
		Expect(svc.SendWebviewMessage(ctx, protocol.MustNew("ping", nil))).To(Succeed())
		Eventually(log.lastCount, 2*time.Second).Should(BeNumerically("==", 2))

		text, err := svc.RequestSingleCompletion(ctx, "abc", 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("echo: abc"))

		count, err := svc.ExecuteCommand(ctx, "echo.count")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeNumerically("==", 2))

		Expect(svc.Dispose(ctx)).To(Succeed())
		Expect(log.seen(service.EventDisposed)).To(BeTrue())
		Expect(services.Commands.Has("echo.count")).To(BeFalse(), "commands unregistered on dispose")
		stored, ok := global.Get("echo.count")
		Expect(ok).To(BeTrue())
		Expect(stored).To(BeNumerically("==", 2))
	})

	It("restores its counter from global state on the next activation", func() {
		first, log := newService()
		Expect(first.Initialize(ctx)).To(Succeed())
		Expect(first.SendWebviewMessage(ctx, protocol.MustNew("ping", nil))).To(Succeed())
		Eventually(log.lastCount, 2*time.Second).Should(BeNumerically("==", 1))
		Expect(first.Dispose(ctx)).To(Succeed())

		second, log2 := newService()
		Expect(second.Initialize(ctx)).To(Succeed())
		DeferCleanup(func() { _ = second.Dispose(ctx) })
		Eventually(log2.lastCount, 2*time.Second).Should(BeNumerically("==", 1))
	})

	It("answers bridged requests", func() {
		svc, _ := newService()
		Expect(svc.Initialize(ctx)).To(Succeed())
		DeferCleanup(func() { _ = svc.Dispose(ctx) })

		env := protocol.MustNew(protocol.TypeInvoke, protocol.InvokePayload{Invoke: "count"})
		result, err := svc.Request(ctx, env)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(MatchJSON(`{"count":0}`))
	})
})
