package core

// RuntimeConfig contains configuration passed to a run by the platform layer.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second driven by the host loop (default 60)
	Seed     int64 // RNG seed for obstacle spawning; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState is a snapshot of the run the presentation layer can display.
type GameState struct {
	Score    int     // Floored score
	Best     int     // Best score known to the run
	Speed    float64 // Current scroll speed in world units per second
	Started  bool    // Whether the run has left the ready state
	Paused   bool    // Whether the run is suspended
	GameOver bool    // Whether the run has ended
}

// StepResult is returned after each simulated frame.
type StepResult struct {
	State   GameState
	Jumped  bool // A jump launched this frame
	Landed  bool // The player touched ground after being airborne
	Spawned int  // Obstacles spawned this frame
}
