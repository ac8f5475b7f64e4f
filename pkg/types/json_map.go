package types

// JSONMap stores loosely-keyed JSON documents such as a location's weekly
// schedule ({"mon": "9am-9pm", ...}).
type JSONMap map[string]any
