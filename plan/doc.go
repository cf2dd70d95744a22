// Package plan parses the JSON a planner model produces for a goal into a
// validated, normalized workflow plan.
//
// A plan names a workflow, describes it and lists the agents to chain:
//
//	{
//	  "workflow_name": "Trip Planner",
//	  "workflow_description": "Researches and drafts an itinerary.",
//	  "agents": [
//	    {"name": "Researcher", "description": "...", "task_prompt": "..."},
//	    {"name": "Writer", "description": "...", "task_prompt": "...", "output_key": "itinerary"}
//	  ]
//	}
//
// Parse either returns a fully valid Plan or a *PlanError naming the first
// field that failed. Names and keys are slugified; duplicate agent keys are
// made unique with their 1-based position.
package plan
