package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/sim"
	"github.com/san-kum/odestep/internal/systems"
)

var _ = Describe("Ensemble", func() {
	cfg := sim.Config{Dt: 0.05, Duration: 1.0, ObserveEvery: 20}

	var ignore goleak.Option

	BeforeEach(func() {
		ignore = goleak.IgnoreCurrent()
	})

	AfterEach(func() {
		goleak.VerifyNone(GinkgoT(), ignore)
	})

	It("runs every initial state with its own stepper", func() {
		decay := systems.NewDecay()
		ens := sim.NewEnsemble(func() *sim.Simulator {
			return sim.New(decay.Derive, integrators.NewRK4())
		}, 3)

		x0s := make([]dynamo.State, 8)
		for i := range x0s {
			x0s[i] = dynamo.State{float64(i + 1)}
		}

		results, err := ens.Run(context.Background(), x0s, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(8))

		for i, res := range results {
			want := float64(i+1) * math.Exp(-1)
			Expect(res.Final[0]).To(BeNumerically("~", want, 1e-6))
		}
	})

	It("fails when any run fails", func() {
		boom := errors.New("boom")
		ens := sim.NewEnsemble(func() *sim.Simulator {
			return sim.New(func(x, dxdt dynamo.State, t float64) error {
				if x[0] < 0 {
					return boom
				}
				dxdt[0] = 0
				return nil
			}, integrators.NewRK4())
		}, 0)

		_, err := ens.Run(context.Background(), []dynamo.State{{1}, {-1}, {2}}, cfg)
		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("ensemble run 1"))
	})
})
