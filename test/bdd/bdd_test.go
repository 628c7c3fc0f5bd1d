package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/gridfleet-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Register all step definitions
	// NOTE: FloorScenario registered FIRST so the physics wording
	// (robots, packages, stations addressed by id) stays claimed by the
	// domain context; first registration wins in godog
	steps.InitializeFloorScenario(sc)
	// SimulationScenario speaks in commands and responses, so its
	// patterns do not overlap with the floor vocabulary
	steps.InitializeSimulationScenario(sc)
}
