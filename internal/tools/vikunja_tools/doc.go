// Package vikunja_tools exposes the launcher plugin's operations as MCP tools.
//
// # Available Tools
//
//   - vikunja_query: Preview the task a piece of launcher text would create
//   - vikunja_list_lists: List task lists, live or from the local cache
//   - vikunja_create_task: Create a task in the default list
//   - vikunja_set_default_list: Choose the default list
//
// The last two change state and are not registered in read-only mode.
//
// All tools go through the same router as the launcher, so they read the
// same config.json and produce the same outcomes.
package vikunja_tools
