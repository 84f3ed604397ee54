package middleware

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
)

// Audit context keys
const (
	auditChangeKey     = "audit_change"
	auditResourceIDKey = "audit_resource_id"
)

// SetAuditChange lets a handler hand the recorder a typed before/after
// change set instead of having the middleware infer one from the response.
func SetAuditChange(c *gin.Context, change audit.Change) {
	c.Set(auditChangeKey, change)
}

// SetAuditResourceID overrides the recorder's resource ID resolution
func SetAuditResourceID(c *gin.Context, id string) {
	c.Set(auditResourceIDKey, id)
}

// bufferedWriter holds the response body back until the recorder has seen
// it, so legacy old/new envelopes can be stripped before the client does.
type bufferedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) flush(body []byte) {
	w.ResponseWriter.Write(body) //nolint:errcheck
}

// AuditTrail records every successful mutation passing through the group as
// an audit entry for the named resource. The recorder is generic: it works
// from the HTTP method, the response envelope and whatever the handler
// stashed, and it knows nothing about individual resource types.
//
// Resolution order for the resource ID: handler override, then the response
// body's _id, then the id path parameter, then the acting user (covers
// mutations whose response has no id of its own). The before/after change
// set is the handler's typed one when present; otherwise a legacy
// {oldData,newData} pair inside the response data is lifted out and the
// client receives the new state in its place, and failing both the action
// decides which side of the change the response body lands on. Anonymous
// mutations borrow the resolved id as the performer, covering public flows
// whose only identity is the record they created.
func AuditTrail(svc *appaudit.AuditService, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := audit.ActionForMethod(c.Request.Method)
		if action == "" {
			c.Next()
			return
		}

		w := &bufferedWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()
		c.Writer = w.ResponseWriter

		body := w.body.Bytes()
		if c.Writer.Status() >= 400 {
			w.flush(body)
			return
		}

		data := decodeResponseData(body)

		resourceID := c.GetString(auditResourceIDKey)
		if resourceID == "" {
			resourceID = stringField(data, "_id")
		}
		if resourceID == "" {
			resourceID = c.Param("id")
		}
		actor := GetActor(c)
		if actor.IsAnonymous() && resourceID != "" {
			// Public flows (guest checkout, signup) have no token; the id
			// the operation produced stands in for the performer.
			actor.UserID = resourceID
		}
		if resourceID == "" {
			resourceID = actor.UserID
		}

		change, typed := getAuditChange(c)
		if typed {
			body = stripLegacyEnvelope(data, body)
		} else {
			change, body = inferChange(action, data, body)
		}
		w.flush(body)

		svc.Record(c.Request.Context(), appaudit.RecordInput{
			Resource:   resource,
			ResourceID: resourceID,
			Action:     action,
			Actor:      actor,
			Change:     change,
			Method:     c.Request.Method,
			Path:       c.FullPath(),
			StatusCode: c.Writer.Status(),
		})
	}
}

func getAuditChange(c *gin.Context) (audit.Change, bool) {
	if v, ok := c.Get(auditChangeKey); ok {
		if change, ok := v.(audit.Change); ok {
			return change, true
		}
	}
	return audit.Change{}, false
}

// decodeResponseData returns the data object of a success envelope, or nil
// when the body is not one.
func decodeResponseData(body []byte) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Data
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

// inferChange builds a change set from the response when the handler did not
// provide one. A legacy {oldData,newData} pair feeds the change and the
// client receives newData in its place; without a pair the whole data object
// counts as the new state for creates and updates, or the old state for
// deletes.
func inferChange(action audit.Action, data map[string]interface{}, body []byte) (audit.Change, []byte) {
	if data == nil {
		return audit.Change{}, body
	}

	oldData, hasOld := data["oldData"]
	newData, hasNew := data["newData"]
	if hasOld || hasNew {
		return audit.Change{Old: oldData, New: newData}, unwrapLegacy(data, newData, hasNew, body)
	}

	switch action {
	case audit.ActionDelete:
		return audit.Change{Old: data}, body
	default:
		return audit.Change{New: data}, body
	}
}

// unwrapLegacy rewrites the response so the client sees newData where the
// legacy pair sat. A pair with no newData (deletes) keeps the remaining
// fields with the pair removed.
func unwrapLegacy(data map[string]interface{}, newData interface{}, hasNew bool, body []byte) []byte {
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	if hasNew {
		envelope["data"] = newData
	} else {
		delete(data, "oldData")
		delete(data, "newData")
		envelope["data"] = data
	}
	if rewritten, err := json.Marshal(envelope); err == nil {
		return rewritten
	}
	return body
}

// stripLegacyEnvelope removes a legacy pair even when the handler supplied a
// typed change, so the envelope never reaches the client.
func stripLegacyEnvelope(data map[string]interface{}, body []byte) []byte {
	if data == nil {
		return body
	}
	newData, hasNew := data["newData"]
	if _, hasOld := data["oldData"]; !hasOld && !hasNew {
		return body
	}
	return unwrapLegacy(data, newData, hasNew, body)
}
