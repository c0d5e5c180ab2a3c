package recorder

// Record is the launcher state after one time step.
type Record struct {
	Time           float64 `json:"time"`
	Position       float64 `json:"position"`
	Velocity       float64 `json:"velocity"`
	Acceleration   float64 `json:"acceleration"`
	Force          float64 `json:"force"`
	KineticEnergy  float64 `json:"kinetic_energy"`
	CapsuleCurrent float64 `json:"capsule_current"`
	ActiveStages   int     `json:"active_stages"`
	StageCurrent   float64 `json:"total_stage_current"`
}

// StageParameters describes one stage as it was built for a run.
type StageParameters struct {
	ID          int     `json:"id"`
	Position    float64 `json:"position"`
	Turns       int     `json:"turns"`
	Diameter    float64 `json:"diameter"`
	Length      float64 `json:"length"`
	Capacitance float64 `json:"capacitance"`
	Voltage     float64 `json:"voltage"`
}

// Parameters are the inputs a run was constructed from.
type Parameters struct {
	CapsuleMass     float64           `json:"capsule_mass"`
	CapsuleDiameter float64           `json:"capsule_diameter"`
	CapsuleLength   float64           `json:"capsule_length"`
	InitialPosition float64           `json:"initial_position"`
	InitialVelocity float64           `json:"initial_velocity"`
	TubeLength      float64           `json:"tube_length"`
	TimeStep        float64           `json:"time_step"`
	MaxTime         float64           `json:"max_time"`
	Stages          []StageParameters `json:"stages"`
}

func (p Parameters) toMap() map[string]interface{} {
	stages := make([]map[string]interface{}, len(p.Stages))
	for i, s := range p.Stages {
		stages[i] = map[string]interface{}{
			"id":          s.ID,
			"position":    s.Position,
			"turns":       s.Turns,
			"diameter":    s.Diameter,
			"length":      s.Length,
			"capacitance": s.Capacitance,
			"voltage":     s.Voltage,
		}
	}
	return map[string]interface{}{
		"capsule_mass":     p.CapsuleMass,
		"capsule_diameter": p.CapsuleDiameter,
		"capsule_length":   p.CapsuleLength,
		"initial_position": p.InitialPosition,
		"initial_velocity": p.InitialVelocity,
		"tube_length":      p.TubeLength,
		"time_step":        p.TimeStep,
		"max_time":         p.MaxTime,
		"stages":           stages,
	}
}

func (r Record) toMap() map[string]interface{} {
	return map[string]interface{}{
		"time":                r.Time,
		"position":            r.Position,
		"velocity":            r.Velocity,
		"acceleration":        r.Acceleration,
		"force":               r.Force,
		"kinetic_energy":      r.KineticEnergy,
		"capsule_current":     r.CapsuleCurrent,
		"active_stages":       r.ActiveStages,
		"total_stage_current": r.StageCurrent,
	}
}
