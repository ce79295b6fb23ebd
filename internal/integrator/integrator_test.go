package integrator_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatsim/internal/integrator"
	"github.com/san-kum/heatsim/internal/thermal"
)

func referenceParams() thermal.Params {
	return thermal.Params{
		Mass: 10000, SpecificHeat: 4186,
		InitialTemp: 20, TargetTemp: 60,
		Collectors: 25, CollectorPower: 4, TimeStep: 60,
	}
}

// expectedSteps is the closed form for a run that reaches its target:
// the smallest step count whose cumulative rise covers the temperature gap.
func expectedSteps(p thermal.Params) int {
	rise := p.StepRise(p.TimeStep)
	return int(math.Ceil((p.TargetTemp - p.InitialTemp) / rise))
}

var _ = Describe("Simulate", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with the reference scenario", func() {
		It("returns the smallest multiple of the time step that reaches the target", func() {
			p := referenceParams()
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())

			steps := expectedSteps(p)
			Expect(result.Steps).To(Equal(steps))
			Expect(result.ElapsedSeconds).To(BeNumerically("~", float64(steps)*p.TimeStep, 1e-9))
			Expect(result.FinalTemp).To(BeNumerically(">=", p.TargetTemp))
			Expect(result.Stalled).To(BeFalse())
		})

		It("records one trace sample per step plus the initial state", func() {
			result, err := integrator.Simulate(ctx, referenceParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Trace).To(HaveLen(result.Steps + 1))
			Expect(result.Trace[0].Temperature).To(Equal(20.0))
			Expect(result.Trace[0].Time).To(Equal(0.0))
		})

		It("keeps elapsed time an integer multiple of the time step", func() {
			p := referenceParams()
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Mod(result.ElapsedSeconds, p.TimeStep)).To(BeZero())
		})
	})

	DescribeTable("step count matches the closed form",
		func(p thermal.Params) {
			result, err := integrator.Simulate(context.Background(), p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(Equal(expectedSteps(p.WithDefaults())))
		},
		Entry("reference", referenceParams()),
		Entry("household tank", thermal.Params{
			Mass: 200, InitialTemp: 15, TargetTemp: 55,
			Collectors: 2, CollectorPower: 2.5,
		}),
		Entry("small store, one collector", thermal.Params{
			Mass: 1000, InitialTemp: 20, TargetTemp: 30,
			Collectors: 10, CollectorPower: 1, TimeStep: 60,
		}),
		Entry("fine time step", thermal.Params{
			Mass: 500, SpecificHeat: 4186, InitialTemp: 18, TargetTemp: 45,
			Collectors: 1, CollectorPower: 4, TimeStep: 1,
		}),
	)

	Context("when the target does not exceed the initial temperature", func() {
		It("returns zero elapsed time for target below initial", func() {
			p := referenceParams()
			p.TargetTemp = 10
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ElapsedSeconds).To(BeZero())
			Expect(result.Steps).To(BeZero())
			Expect(result.FinalTemp).To(Equal(p.InitialTemp))
		})

		It("returns zero elapsed time for target equal to initial", func() {
			p := referenceParams()
			p.TargetTemp = p.InitialTemp
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ElapsedSeconds).To(BeZero())
			Expect(result.Steps).To(BeZero())
		})
	})

	Context("when no heat is delivered", func() {
		It("stalls after exactly one time step with zero collectors", func() {
			p := referenceParams()
			p.Collectors = 0
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stalled).To(BeTrue())
			Expect(result.Steps).To(Equal(1))
			Expect(result.ElapsedSeconds).To(Equal(p.TimeStep))
			Expect(result.FinalTemp).To(Equal(p.InitialTemp))
		})

		It("stalls after exactly one time step with zero collector power", func() {
			p := referenceParams()
			p.CollectorPower = 0
			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stalled).To(BeTrue())
			Expect(result.ElapsedSeconds).To(Equal(p.TimeStep))
		})
	})

	Context("when the rise cannot advance the temperature", func() {
		It("stalls instead of looping on a rise below the float spacing", func() {
			// Valid parameters, but the rise is ~1.4e-29 °C: adding it
			// to 20 °C is a no-op in float64.
			p := thermal.Params{
				Mass: 1e30, SpecificHeat: 4186,
				InitialTemp: 20, TargetTemp: 60,
				Collectors: 1, CollectorPower: 1, TimeStep: 60,
			}
			Expect(p.Validate()).To(Succeed())
			Expect(p.StepRise(p.TimeStep)).To(BeNumerically(">", 0))

			result, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stalled).To(BeTrue())
			Expect(result.Steps).To(Equal(1))
			Expect(result.ElapsedSeconds).To(Equal(p.TimeStep))
			Expect(result.FinalTemp).To(Equal(p.InitialTemp))
		})
	})

	Context("with invalid parameters", func() {
		It("rejects non-positive mass", func() {
			p := referenceParams()
			p.Mass = 0
			_, err := integrator.Simulate(ctx, p)
			Expect(err).To(MatchError(thermal.ErrInvalidParameter))
		})

		It("rejects non-positive time step", func() {
			p := referenceParams()
			p.TimeStep = -60
			_, err := integrator.Simulate(ctx, p)
			Expect(err).To(MatchError(thermal.ErrInvalidParameter))
		})

		It("rejects negative collector count", func() {
			p := referenceParams()
			p.Collectors = -1
			_, err := integrator.Simulate(ctx, p)
			Expect(err).To(MatchError(thermal.ErrInvalidParameter))
		})
	})

	Context("as a pure function", func() {
		It("is idempotent", func() {
			p := referenceParams()
			first, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			second, err := integrator.Simulate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ElapsedSeconds).To(Equal(first.ElapsedSeconds))
			Expect(second.Steps).To(Equal(first.Steps))
			Expect(second.FinalTemp).To(Equal(first.FinalTemp))
		})

		It("never heats slower with more collectors", func() {
			p := referenceParams()
			prev := math.Inf(1)
			for n := 1; n <= 50; n += 7 {
				p.Collectors = n
				result, err := integrator.Simulate(ctx, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.ElapsedSeconds).To(BeNumerically("<=", prev))
				prev = result.ElapsedSeconds
			}
		})

		It("never heats slower with more powerful collectors", func() {
			p := referenceParams()
			prev := math.Inf(1)
			for _, kw := range []float64{0.5, 1, 2, 4, 8} {
				p.CollectorPower = kw
				result, err := integrator.Simulate(ctx, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.ElapsedSeconds).To(BeNumerically("<=", prev))
				prev = result.ElapsedSeconds
			}
		})
	})

	Context("with a canceled context", func() {
		It("stops before advancing", func() {
			canceled, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := integrator.Simulate(canceled, referenceParams())
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Steps).To(BeZero())
		})
	})
})

var _ = Describe("Runner", func() {
	It("stops on a non-finite rise instead of looping", func() {
		// The unchecked path divides by zero mass.
		p := thermal.Params{
			Mass: 0, SpecificHeat: 4186,
			InitialTemp: 20, TargetTemp: 60,
			Collectors: 25, CollectorPower: 4, TimeStep: 60,
		}
		r := integrator.New(p)
		result, err := r.Run(context.Background())
		Expect(err).To(MatchError(thermal.ErrNonFiniteRise))
		Expect(result.Stalled).To(BeTrue())
		Expect(result.Steps).To(Equal(1))
	})

	It("aborts with ErrStepLimit when the cap is hit before the target", func() {
		r := integrator.New(referenceParams())
		r.MaxSteps = 10

		result, err := r.Run(context.Background())
		Expect(err).To(MatchError(thermal.ErrStepLimit))
		Expect(result.Steps).To(Equal(10))
		Expect(result.ElapsedSeconds).To(Equal(600.0))
	})

	It("leaves runs alone when the cap is not reached", func() {
		r := integrator.New(referenceParams())
		r.MaxSteps = 100000

		result, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Stalled).To(BeFalse())
		Expect(result.FinalTemp).To(BeNumerically(">=", 60))
	})

	It("notifies observers once per step", func() {
		p := referenceParams()
		r := integrator.New(p)

		var seen []thermal.State
		r.AddObserver(observerFunc(func(s thermal.State) {
			seen = append(seen, s)
		}))

		result, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(result.Steps))
		Expect(seen[0].Elapsed).To(Equal(p.TimeStep))
	})

	It("resets metrics at run start and collects them into the result", func() {
		p := referenceParams()
		r := integrator.New(p)

		m := &countingMetric{}
		m.count = 99 // stale value from a previous run
		r.AddMetric(m)

		result, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("count", float64(result.Steps)))
	})
})

type observerFunc func(thermal.State)

func (f observerFunc) OnStep(s thermal.State) { f(s) }

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                        { return "count" }
func (c *countingMetric) Observe(s thermal.State, dt float64) { c.count++ }
func (c *countingMetric) Value() float64                      { return float64(c.count) }
func (c *countingMetric) Reset()                              { c.count = 0 }
