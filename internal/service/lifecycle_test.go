// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service_test

import (
	"context"
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/pkg/protocol"
)

var _ = Describe("Extension service lifecycle", func() {
	var (
		ctx    context.Context
		ext    *fakeExtension
		svc    *service.Service
		events []service.EventType
	)

	record := func(types ...service.EventType) {
		for _, t := range types {
			svc.On(t, func(ev service.Event) { events = append(events, ev.Type) })
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		ext = newFakeExtension()
		ext.state = json.RawMessage(`{"value":1}`)
		svc = service.New(ext)
		events = nil
		record(service.EventReady, service.EventDisposed)
	})

	AfterEach(func() {
		Expect(svc.Dispose(ctx)).To(Succeed())
	})

	Describe("before initialization", func() {
		It("reports no state", func() {
			Expect(svc.GetState(ctx)).To(BeNil())
		})

		It("has no extension API", func() {
			Expect(svc.ExtensionAPI()).To(BeNil())
		})

		It("rejects messages as not initialized", func() {
			err := svc.SendWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask})
			Expect(err).To(MatchError(service.ErrNotInitialized))
		})

		It("rejects completions as not initialized", func() {
			_, err := svc.RequestSingleCompletion(ctx, "hi", time.Second)
			Expect(err).To(MatchError(service.ErrNotInitialized))
		})
	})

	Describe("after initialization", func() {
		BeforeEach(func() {
			Expect(svc.Initialize(ctx)).To(Succeed())
		})

		It("is activated", func() {
			Expect(svc.Phase()).To(Equal(host.PhaseActivated))
		})

		It("emitted ready exactly once", func() {
			Expect(svc.Initialize(ctx)).To(Succeed())
			Expect(events).To(Equal([]service.EventType{service.EventReady}))
		})

		It("returns the live state", func() {
			Expect(svc.GetState(ctx)).To(MatchJSON(`{"value":1}`))
		})

		It("delivers messages to the extension", func() {
			ext.autoReply = true
			text, err := svc.RequestSingleCompletion(ctx, "ok", time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("OK"))
		})
	})

	Describe("disposal", func() {
		BeforeEach(func() {
			Expect(svc.Initialize(ctx)).To(Succeed())
			Expect(svc.Dispose(ctx)).To(Succeed())
		})

		It("emits disposed after ready", func() {
			Expect(events).To(Equal([]service.EventType{service.EventReady, service.EventDisposed}))
		})

		It("is idempotent", func() {
			Expect(svc.Dispose(ctx)).To(Succeed())
			Expect(events).To(HaveLen(2))
		})

		It("clears state and API", func() {
			Expect(svc.GetState(ctx)).To(BeNil())
			Expect(svc.ExtensionAPI()).To(BeNil())
		})

		It("rejects every guarded operation as disposed", func() {
			Expect(svc.Initialize(ctx)).To(MatchError(service.ErrDisposed))
			Expect(svc.SendWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask})).
				To(MatchError(service.ErrDisposed))
			_, err := svc.Request(ctx, protocol.Envelope{Type: protocol.TypeInvoke})
			Expect(err).To(MatchError(service.ErrDisposed))
		})

		It("moves the host to disposed", func() {
			Expect(svc.Phase()).To(Equal(host.PhaseDisposed))
		})
	})
})
