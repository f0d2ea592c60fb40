package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/resize"
	"github.com/san-kum/odestep/internal/sim"
	"github.com/san-kum/odestep/internal/systems"
)

type countingMetric struct {
	n int
}

func (m *countingMetric) Name() string   { return "count" }
func (m *countingMetric) Value() float64 { return float64(m.n) }
func (m *countingMetric) Reset()         { m.n = 0 }

func (m *countingMetric) Observe(_ dynamo.State, _ float64) {
	m.n++
}

type timeRecorder struct {
	times []float64
}

func (r *timeRecorder) OnStep(_ dynamo.State, t float64) { r.times = append(r.times, t) }

var _ = Describe("Simulator", func() {
	var (
		decay *systems.Decay
		cfg   sim.Config
	)

	BeforeEach(func() {
		decay = systems.NewDecay()
		cfg = sim.Config{Dt: 0.1, Duration: 1.0, ObserveEvery: 1, ValidateState: true}
	})

	It("records every step and reaches the exact solution", func() {
		x0 := dynamo.State{1.0}
		res, err := sim.New(decay.Derive, integrators.NewRK4()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(Equal(10))
		Expect(res.States).To(HaveLen(11))
		Expect(res.Times).To(HaveLen(11))
		Expect(res.Times[0]).To(Equal(0.0))
		Expect(res.Times[10]).To(BeNumerically("~", 1.0, 1e-12))

		exact := decay.Exact(x0, 0, 1.0)
		Expect(res.Final[0]).To(BeNumerically("~", exact[0], 1e-6))
		Expect(x0[0]).To(Equal(1.0), "initial state must not be modified")
	})

	It("starts the clock at T0", func() {
		cfg.T0 = 2.0
		res, err := sim.Integrate(context.Background(), integrators.NewRK4(), decay.Derive, dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times[0]).To(Equal(2.0))
		Expect(res.Times[len(res.Times)-1]).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("thins the recorded states with ObserveEvery", func() {
		cfg.ObserveEvery = 4
		res, err := sim.Integrate(context.Background(), integrators.NewRK4(), decay.Derive, dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		// initial, step 4, step 8 and the final step 10
		Expect(res.Times).To(HaveLen(4))
		Expect(res.Times[1]).To(BeNumerically("~", 0.4, 1e-12))
		Expect(res.Times[3]).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("counts driver and stepper evaluations", func() {
		res, err := sim.Integrate(context.Background(), integrators.NewRK4(), decay.Derive, dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Evaluations).To(Equal(uint64(40)))
	})

	It("feeds metrics and observers once per step", func() {
		m := &countingMetric{}
		rec := &timeRecorder{}
		s := sim.New(decay.Derive, integrators.NewRK4())
		s.AddMetric(m)
		s.AddObserver(rec)

		res, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("count", 10.0))
		Expect(rec.times).To(HaveLen(10))
		Expect(rec.times[0]).To(BeNumerically("~", 0.1, 1e-12))

		_, err = s.Run(context.Background(), dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.n).To(Equal(10), "metrics are reset between runs")
	})

	It("reports energy drift when an energy function is given", func() {
		h := systems.NewHarmonic()
		s := sim.New(h.Derive, integrators.NewRK4(), sim.WithEnergy(h.Energy))
		cfg.Dt = 0.01
		cfg.Duration = 10
		res, err := s.Run(context.Background(), h.DefaultState(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.EnergyDrift).To(BeNumerically("<", 1e-8))
	})

	DescribeTable("rejects invalid configurations",
		func(dt, duration float64) {
			cfg.Dt = dt
			cfg.Duration = duration
			_, err := sim.Integrate(context.Background(), integrators.NewRK4(), decay.Derive, dynamo.State{1.0}, cfg)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero dt", 0.0, 1.0),
		Entry("negative dt", -0.1, 1.0),
		Entry("NaN dt", math.NaN(), 1.0),
		Entry("zero duration", 0.1, 0.0),
		Entry("infinite duration", 0.1, math.Inf(1)),
	)

	It("stops on a non-finite state", func() {
		blowup := func(x, dxdt dynamo.State, t float64) error {
			dxdt[0] = math.Inf(1)
			return nil
		}
		res, err := sim.Integrate(context.Background(), integrators.NewRK4(), blowup, dynamo.State{1.0}, cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
		Expect(res).NotTo(BeNil())
		Expect(res.StepsTaken).To(Equal(1))
	})

	It("passes system failures through unchanged", func() {
		boom := errors.New("boom")
		calls := 0
		failing := func(x, dxdt dynamo.State, t float64) error {
			calls++
			if calls > 6 {
				return boom
			}
			dxdt[0] = 0
			return nil
		}
		_, err := sim.Integrate(context.Background(), integrators.NewRK4(), failing, dynamo.State{1.0}, cfg)
		Expect(errors.Is(err, boom)).To(BeTrue())

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(1))
		Expect(simErr.Wrapped).To(BeIdenticalTo(boom))
	})

	It("surfaces the dimension mismatch of an already sized stepper", func() {
		stepper := integrators.NewRK4(integrators.WithPolicy(resize.PolicyInitially))
		_, err := sim.Integrate(context.Background(), stepper, decay.Derive, dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.Integrate(context.Background(), stepper, decay.Derive, dynamo.State{1.0, 2.0}, cfg)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("honours a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := sim.Integrate(ctx, integrators.NewRK4(), decay.Derive, dynamo.State{1.0}, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.StepsTaken).To(Equal(0))
	})

	It("logs run boundaries at debug level", func() {
		core, logs := observer.New(zap.DebugLevel)
		s := sim.New(decay.Derive, integrators.NewRK4(), sim.WithLogger(zap.New(core)))
		_, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs.FilterMessage("run started").Len()).To(Equal(1))
		Expect(logs.FilterMessage("run finished").Len()).To(Equal(1))
	})
})
