package verify_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/distancelut"
	"github.com/sarchlab/mapper2/maptable"
	"github.com/sarchlab/mapper2/placement"
	"github.com/sarchlab/mapper2/routing"
	"github.com/sarchlab/mapper2/taskgraph"
	"github.com/sarchlab/mapper2/verify"
)

func buildLine(n int) (*arch.TopLevel, *maptable.MapTable) {
	sp, err := addr.NewSpace(n)
	Expect(err).NotTo(HaveOccurred())

	var cons []arch.TopLevelConstructor
	for i := 0; i < n; i++ {
		pe, err := arch.BuildComponent("pe", "pe", arch.WithPort("In", arch.Input))
		Expect(err).NotTo(HaveOccurred())
		cons = append(cons, arch.WithTile(addr.MustNew(i), fmt.Sprintf("T%d", i), pe))
	}

	top, err := arch.BuildTopLevel(sp, arch.RuleSet{}, cons...)
	Expect(err).NotTo(HaveOccurred())

	pt, err := maptable.BuildPathTable(top)
	Expect(err).NotTo(HaveOccurred())

	mt, err := maptable.BuildMapTables(
		top, pt,
		map[maptable.ClassID]arch.TaskID{"pe": "anyTask"},
		map[maptable.ClassID]bool{},
		nil,
	)
	Expect(err).NotTo(HaveOccurred())

	return top, mt
}

func lineNeighbors(sp addr.Space) func(addr.Address) []addr.Address {
	return func(a addr.Address) []addr.Address {
		var out []addr.Address
		for _, d := range []int{-1, 1} {
			n, err := addr.Add(a, addr.MustNew(d))
			if err == nil {
				if _, err := sp.Index(n); err == nil {
					out = append(out, n)
				}
			}
		}

		return out
	}
}

var _ = Describe("VerifyPlacement", func() {
	var state *placement.State

	BeforeEach(func() {
		top, mt := buildLine(3)
		lut, err := distancelut.Build(context.Background(), top.Space, lineNeighbors(top.Space))
		Expect(err).NotTo(HaveOccurred())

		nodes := []placement.SANode{
			{Name: "n0", Class: "pe"},
			{Name: "n1", Class: "pe"},
		}
		state, err = placement.NewState(nodes, nil, mt, lut, top.Space, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Assign(0, addr.Location{Addr: addr.MustNew(0)})).To(Succeed())
		Expect(state.Assign(1, addr.Location{Addr: addr.MustNew(1)})).To(Succeed())
	})

	It("reports no issues for a consistent, legal placement", func() {
		report := verify.VerifyPlacement(state)
		Expect(report.Passed()).To(BeTrue())
		Expect(report.Issues).To(BeEmpty())
	})

	It("is idempotent across repeated calls without mutation", func() {
		first := verify.VerifyPlacement(state)
		second := verify.VerifyPlacement(state)
		Expect(second).To(Equal(first))
	})

	It("stays consistent after a Move", func() {
		Expect(state.Move(0, addr.Location{Addr: addr.MustNew(2)})).To(Succeed())
		report := verify.VerifyPlacement(state)
		Expect(report.Passed()).To(BeTrue())
	})
})

func buildChainForVerify(n, bottleneck, bottleneckCap int) *arch.TopLevel {
	sp, err := addr.NewSpace(n)
	Expect(err).NotTo(HaveOccurred())

	tileName := func(i int) string { return fmt.Sprintf("T%d", i) }
	tilePath := func(i int) arch.Path { return arch.NewPath(tileName(i)) }

	var cons []arch.TopLevelConstructor
	for i := 0; i < n; i++ {
		pe, err := arch.BuildComponent("pe", "pe",
			arch.WithPort("in", arch.Input),
			arch.WithPort("out", arch.Output),
		)
		Expect(err).NotTo(HaveOccurred())
		cons = append(cons, arch.WithTile(addr.MustNew(i), tileName(i), pe))
	}
	for i := 0; i < n-1; i++ {
		cons = append(cons, arch.WithRootLink(
			fmt.Sprintf("L%d", i),
			[]arch.Path{tilePath(i).Child("out")},
			[]arch.Path{tilePath(i + 1).Child("in")},
			1000,
		))
	}

	rs := arch.DefaultRuleSet()
	rs.GetCapacity = func(p arch.Path) int {
		if bottleneck >= 0 && p.Equal(tilePath(bottleneck).Child("out")) {
			return bottleneckCap
		}

		return 1000
	}

	top, err := arch.BuildTopLevel(sp, rs, cons...)
	Expect(err).NotTo(HaveOccurred())

	return top
}

func edgeTaskgraph() *taskgraph.Taskgraph {
	b := taskgraph.NewBuilder("pair")
	b.AddNode(taskgraph.Node{Name: "a"})
	b.AddNode(taskgraph.Node{Name: "b"})
	b.AddEdge(taskgraph.Edge{Sources: []string{"a"}, Sinks: []string{"b"}})
	tg, err := b.Build()
	Expect(err).NotTo(HaveOccurred())

	return tg
}

var _ = Describe("VerifyRouting", func() {
	It("reports no issues for a successfully routed channel", func() {
		top := buildChainForVerify(4, -1, 1000)
		tg := edgeTaskgraph()
		placementMap := map[string]arch.Path{"a": arch.NewPath("T0"), "b": arch.NewPath("T3")}

		rs, err := routing.NewRoutingStruct(top, tg, placementMap)
		Expect(err).NotTo(HaveOccurred())

		pf := routing.NewPathfinder(rs, top)
		_, _, err = pf.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		report := verify.VerifyRouting(rs, top)
		Expect(report.Passed()).To(BeTrue())
	})

	It("flags over-capacity vertices when congestion never clears", func() {
		top := buildChainForVerify(4, 1, 1)

		b := taskgraph.NewBuilder("fork")
		b.AddNode(taskgraph.Node{Name: "srcA"})
		b.AddNode(taskgraph.Node{Name: "srcB"})
		b.AddNode(taskgraph.Node{Name: "dstA"})
		b.AddNode(taskgraph.Node{Name: "dstB"})
		b.AddEdge(taskgraph.Edge{Sources: []string{"srcA"}, Sinks: []string{"dstA"}})
		b.AddEdge(taskgraph.Edge{Sources: []string{"srcB"}, Sinks: []string{"dstB"}})
		tg, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		placementMap := map[string]arch.Path{
			"srcA": arch.NewPath("T0"), "srcB": arch.NewPath("T0"),
			"dstA": arch.NewPath("T3"), "dstB": arch.NewPath("T3"),
		}
		rs, err := routing.NewRoutingStruct(top, tg, placementMap)
		Expect(err).NotTo(HaveOccurred())

		pf := routing.NewPathfinder(rs, top, routing.WithMaxIterations(5))
		_, _, runErr := pf.Run(context.Background())

		var congestion *routing.CongestionError
		Expect(runErr).To(BeAssignableToTypeOf(congestion))

		report := verify.VerifyRouting(rs, top, verify.WithVerbose(true))
		Expect(report.Passed()).To(BeFalse())

		found := false
		for _, issue := range report.Issues {
			if issue.Kind == "over_capacity" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("flags missing group coverage when a route is left empty", func() {
		top := buildChainForVerify(4, -1, 1000)
		tg := edgeTaskgraph()
		placementMap := map[string]arch.Path{"a": arch.NewPath("T0"), "b": arch.NewPath("T3")}

		rs, err := routing.NewRoutingStruct(top, tg, placementMap)
		Expect(err).NotTo(HaveOccurred())
		rs.Routes[0] = nil

		report := verify.VerifyRouting(rs, top, verify.WithVerbose(true))
		Expect(report.Passed()).To(BeFalse())

		found := false
		for _, issue := range report.Issues {
			if issue.Kind == "missing_group_coverage" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("flags can_use violations against a stricter RuleSet than the one used to route", func() {
		top := buildChainForVerify(4, -1, 1000)
		tg := edgeTaskgraph()
		placementMap := map[string]arch.Path{"a": arch.NewPath("T0"), "b": arch.NewPath("T3")}

		rs, err := routing.NewRoutingStruct(top, tg, placementMap)
		Expect(err).NotTo(HaveOccurred())

		pf := routing.NewPathfinder(rs, top)
		_, _, err = pf.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		strict := buildChainForVerify(4, -1, 1000)
		strict.RuleSet.CanUse = func(p arch.Path, _ arch.ChannelID) bool {
			return !p.Equal(arch.NewPath("T1", "in"))
		}

		report := verify.VerifyRouting(rs, strict, verify.WithVerbose(true))
		Expect(report.Passed()).To(BeFalse())

		found := false
		for _, issue := range report.Issues {
			if issue.Kind == "can_use_violation" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})
})
