// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-statements/data"
	"github.com/penny-vault/pv-statements/session"
	"github.com/penny-vault/pv-statements/taxonomy"
)

var _ = Describe("Dashboard", func() {
	var (
		ctx      context.Context
		provider *fakeProvider
		store    *session.Store
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		provider = newFakeProvider()
		provider.addCompany("AAA", "Alpha Corp", 1, 2021, 2019, 2020)
		provider.addCompany("BBB", "Beta Corp", 2, 2018, 2019)
		provider.addCompany("CCC", "Gamma Corp", 3, 2022)
		store, err = session.NewStore(8, provider)
		Expect(err).To(BeNil())
	})

	Context("when created for a ticker", func() {
		It("binds every statement at its taxonomy default", func() {
			d, err := store.Create(ctx, "aaa")
			Expect(err).To(BeNil())
			Expect(d.Ticker()).To(Equal("AAA"))
			Expect(d.Company().Name()).To(Equal("Alpha Corp"))
			Expect(d.Loading()).To(BeFalse())

			state, err := d.State(taxonomy.BalanceSheet)
			Expect(err).To(BeNil())
			Expect(state.Selection.Group).To(Equal("Assets"))
			Expect(state.Selection.Metric.Key).To(Equal("cashAndCashEquivalents"))
			Expect(state.Series.Years).To(Equal([]int{2019, 2020, 2021}))
			Expect(state.Series.Values).To(Equal([]any{1.0, 1.0, 1.0}))

			state, err = d.State(taxonomy.IncomeStatement)
			Expect(err).To(BeNil())
			Expect(state.Selection.Metric.Key).To(Equal("revenue"))
			Expect(state.Records).To(Equal(3))
		})

		It("rejects invalid tickers without storing a session", func() {
			_, err := store.Create(ctx, "")
			Expect(errors.Is(err, data.ErrInvalidTicker)).To(BeTrue())
			Expect(store.Len()).To(Equal(0))
		})

		It("binds an empty record set for statements that cannot be fetched", func() {
			provider.removeStatement("AAA", taxonomy.CashFlow)

			d, err := store.Create(ctx, "AAA")
			Expect(err).To(BeNil())

			series, err := d.Series(taxonomy.CashFlow)
			Expect(err).To(BeNil())
			Expect(series.Len()).To(Equal(0))

			summary := d.Summary()
			Expect(summary.Unavailable).To(Equal([]taxonomy.StatementType{taxonomy.CashFlow}))
			Expect(summary.Records[taxonomy.BalanceSheet]).To(Equal(3))
			Expect(summary.Records[taxonomy.CashFlow]).To(Equal(0))
		})

		It("reports unknown statements", func() {
			d, err := store.Create(ctx, "AAA")
			Expect(err).To(BeNil())

			_, err = d.State(taxonomy.StatementType("equity"))
			Expect(errors.Is(err, taxonomy.ErrUnknownStatement)).To(BeTrue())
		})
	})

	Context("when the selection changes", func() {
		var d *session.Dashboard

		BeforeEach(func() {
			var err error
			d, err = store.Create(ctx, "AAA")
			Expect(err).To(BeNil())
		})

		It("resets the metric when a group is chosen", func() {
			state, err := d.SelectGroup(taxonomy.BalanceSheet, "Liabilities")
			Expect(err).To(BeNil())
			Expect(state.Selection.Group).To(Equal("Liabilities"))
			Expect(state.Selection.Metric.Key).To(Equal("accountPayables"))
			Expect(state.Metrics[0].Key).To(Equal("accountPayables"))
		})

		It("returns the unchanged state for unknown groups", func() {
			before, err := d.State(taxonomy.IncomeStatement)
			Expect(err).To(BeNil())

			after, err := d.SelectGroup(taxonomy.IncomeStatement, "Liabilities")
			Expect(err).To(BeNil())
			Expect(after).To(Equal(before))
		})

		It("ignores metrics outside the active group", func() {
			state, err := d.SelectMetric(taxonomy.BalanceSheet, "totalLiabilities")
			Expect(err).To(BeNil())
			Expect(state.Selection.Group).To(Equal("Assets"))
			Expect(state.Selection.Metric.Key).To(Equal("cashAndCashEquivalents"))
		})

		It("keeps statements independent of each other", func() {
			_, err := d.SelectGroup(taxonomy.BalanceSheet, "Equity")
			Expect(err).To(BeNil())

			state, err := d.State(taxonomy.CashFlow)
			Expect(err).To(BeNil())
			Expect(state.Selection.Group).To(Equal("Operating Activities"))
		})

		It("resets every selection when the ticker changes", func() {
			_, err := d.SelectGroup(taxonomy.BalanceSheet, "Equity")
			Expect(err).To(BeNil())

			applied, err := d.Load(ctx, "BBB")
			Expect(err).To(BeNil())
			Expect(applied).To(BeTrue())

			state, err := d.State(taxonomy.BalanceSheet)
			Expect(err).To(BeNil())
			Expect(state.Selection.Group).To(Equal("Assets"))
			Expect(state.Series.Years).To(Equal([]int{2018, 2019}))
			Expect(state.Series.Values).To(Equal([]any{2.0, 2.0}))
		})
	})

	Context("when loads overlap", func() {
		It("keeps the most recently requested ticker", func() {
			d, err := store.Create(ctx, "AAA")
			Expect(err).To(BeNil())

			gate := provider.hold("BBB")
			slow := make(chan bool, 1)
			go func() {
				defer GinkgoRecover()
				applied, err := d.Load(ctx, "BBB")
				Expect(err).To(BeNil())
				slow <- applied
			}()

			Eventually(d.Ticker).Should(Equal("BBB"))
			Expect(d.Loading()).To(BeTrue())

			applied, err := d.Load(ctx, "CCC")
			Expect(err).To(BeNil())
			Expect(applied).To(BeTrue())

			close(gate)
			Eventually(slow).Should(Receive(BeFalse()))

			Expect(d.Ticker()).To(Equal("CCC"))
			Expect(d.Company().Name()).To(Equal("Gamma Corp"))
			Expect(d.Loading()).To(BeFalse())

			series, err := d.Series(taxonomy.BalanceSheet)
			Expect(err).To(BeNil())
			Expect(series.Years).To(Equal([]int{2022}))
			Expect(series.Values).To(Equal([]any{3.0}))
		})

		It("gives up when the request is cancelled", func() {
			d, err := store.Create(ctx, "AAA")
			Expect(err).To(BeNil())

			provider.hold("BBB")
			cancelCtx, cancel := context.WithCancel(ctx)
			cancel()

			applied, err := d.Load(cancelCtx, "BBB")
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(applied).To(BeFalse())

			series, err := d.Series(taxonomy.BalanceSheet)
			Expect(err).To(BeNil())
			Expect(series.Years).To(Equal([]int{2019, 2020, 2021}))

			Expect(d.Ticker()).To(Equal("AAA"))
			Expect(d.Loading()).To(BeFalse())
			Expect(d.Company().Name()).To(Equal("Alpha Corp"))

			summary := d.Summary()
			Expect(summary.Ticker).To(Equal("AAA"))
			Expect(summary.Loading).To(BeFalse())
			Expect(summary.Records[taxonomy.BalanceSheet]).To(Equal(3))
		})

		It("binds the next load after a cancelled one", func() {
			d, err := store.Create(ctx, "AAA")
			Expect(err).To(BeNil())

			provider.hold("BBB")
			cancelCtx, cancel := context.WithCancel(ctx)
			cancel()
			_, err = d.Load(cancelCtx, "BBB")
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())

			applied, err := d.Load(ctx, "CCC")
			Expect(err).To(BeNil())
			Expect(applied).To(BeTrue())
			Expect(d.Ticker()).To(Equal("CCC"))
			Expect(d.Loading()).To(BeFalse())

			series, err := d.Series(taxonomy.BalanceSheet)
			Expect(err).To(BeNil())
			Expect(series.Years).To(Equal([]int{2022}))
		})
	})
})

var _ = Describe("Store", func() {
	var (
		ctx      context.Context
		provider *fakeProvider
		now      time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = newFakeProvider()
		provider.addCompany("AAA", "Alpha Corp", 1, 2020)
		now = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	})

	clock := func() time.Time {
		return now
	}

	It("requires room for at least one session", func() {
		_, err := session.NewStore(0, provider)
		Expect(errors.Is(err, session.ErrNoSessions)).To(BeTrue())
	})

	It("finds dashboards by id", func() {
		store, err := session.NewStore(4, provider, session.WithClock(clock))
		Expect(err).To(BeNil())

		d, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		found, err := store.Get(d.ID())
		Expect(err).To(BeNil())
		Expect(found).To(BeIdenticalTo(d))

		_, err = store.Get("missing")
		Expect(errors.Is(err, session.ErrSessionNotFound)).To(BeTrue())
	})

	It("deletes dashboards", func() {
		store, err := session.NewStore(4, provider)
		Expect(err).To(BeNil())

		d, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		Expect(store.Delete(d.ID())).To(BeTrue())
		Expect(store.Delete(d.ID())).To(BeFalse())
		_, err = store.Get(d.ID())
		Expect(errors.Is(err, session.ErrSessionNotFound)).To(BeTrue())
	})

	It("evicts the least recently used dashboard when full", func() {
		store, err := session.NewStore(2, provider)
		Expect(err).To(BeNil())

		first, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())
		second, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		_, err = store.Get(first.ID())
		Expect(err).To(BeNil())

		_, err = store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		Expect(store.Len()).To(Equal(2))
		_, err = store.Get(second.ID())
		Expect(errors.Is(err, session.ErrSessionNotFound)).To(BeTrue())
		_, err = store.Get(first.ID())
		Expect(err).To(BeNil())
	})

	It("sweeps idle dashboards", func() {
		store, err := session.NewStore(4, provider, session.WithClock(clock))
		Expect(err).To(BeNil())

		idle, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		now = now.Add(20 * time.Minute)
		active, err := store.Create(ctx, "AAA")
		Expect(err).To(BeNil())

		now = now.Add(15 * time.Minute)
		Expect(store.Sweep(30 * time.Minute)).To(Equal(1))

		_, err = store.Get(idle.ID())
		Expect(errors.Is(err, session.ErrSessionNotFound)).To(BeTrue())
		_, err = store.Get(active.ID())
		Expect(err).To(BeNil())
	})
})

var _ = Describe("Summary", func() {
	It("describes a fresh dashboard", func() {
		provider := newFakeProvider()
		d := session.NewDashboard("abc", provider)

		summary := d.Summary()
		Expect(summary.ID).To(Equal("abc"))
		Expect(summary.Ticker).To(BeEmpty())
		Expect(summary.Loading).To(BeFalse())
		Expect(summary.Company).To(BeNil())
		Expect(summary.Records).To(HaveLen(3))
	})
})
