// Package authz maps member roles to the capabilities they hold.
package authz

import "strings"

// Capability resource:action permission key
type Capability string

const (
	TaskClaim         Capability = "task:claim"
	AssignmentRespond Capability = "assignment:respond"
	AssignmentManage  Capability = "assignment:manage"
	EventManage       Capability = "event:manage"
	EventRead         Capability = "event:read"
	TaskManage        Capability = "task:manage"
	MemberManage      Capability = "member:manage"
	MemberApprove     Capability = "member:approve"
	AuditRead         Capability = "audit:read"
	VisitorRead       Capability = "visitor:read"
)

// Key composes a capability from resource and action
func Key(resource, action string) Capability {
	return Capability(strings.ToLower(resource + ":" + action))
}

var policy = map[string]map[Capability]bool{
	"admin": set(
		TaskClaim, AssignmentRespond, AssignmentManage,
		EventManage, EventRead, TaskManage,
		MemberManage, MemberApprove, AuditRead, VisitorRead,
	),
	"leader": set(
		TaskClaim, AssignmentRespond, AssignmentManage,
		EventManage, EventRead, TaskManage,
		MemberApprove, AuditRead, VisitorRead,
	),
	"member": set(TaskClaim, AssignmentRespond, EventRead),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func Can(role string, c Capability) bool {
	return policy[role][c]
}

// Capabilities every capability held by role
func Capabilities(role string) []Capability {
	out := make([]Capability, 0, len(policy[role]))
	for c := range policy[role] {
		out = append(out, c)
	}
	return out
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	_, ok := policy[role]
	return ok
}
