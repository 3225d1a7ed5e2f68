package notification

import (
	"bytes"
	"html/template"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "request_created"}}
<p>Hello {{.RecipientName}},</p>
<p><strong>{{.StaffName}}</strong> ({{.StaffDepartment}}) submitted a {{.RequestType}} request that needs your approval.</p>
<p>Serial number: <strong>{{.SerialNumber}}</strong></p>
<p><a href="{{.Link}}">Open the request</a></p>
{{end}}

{{define "request_fully_approved"}}
<p>Hello {{.RecipientName}},</p>
<p>Your {{.RequestType}} request <strong>{{.SerialNumber}}</strong> has been approved at every level.</p>
<p>The signed document is attached.</p>
{{end}}

{{define "request_rejected"}}
<p>Hello {{.RecipientName}},</p>
<p>Your {{.RequestType}} request <strong>{{.SerialNumber}}</strong> was rejected by {{.ActorName}}.</p>
{{if .Remark}}<p>Remark: {{.Remark}}</p>{{end}}
<p><a href="{{.Link}}">Open the request</a></p>
{{end}}

{{define "technician_assigned"}}
<p>Hello {{.RecipientName}},</p>
<p>You have been assigned maintenance job <strong>{{.SerialNumber}}</strong>.</p>
<ul>
<li>Issue: {{.Issue}}</li>
<li>Location: {{.Location}}</li>
<li>Priority: {{.Priority}}</li>
<li>SLA: {{.SLAHours}} hours</li>
</ul>
<p><a href="{{.Link}}">Open the job</a></p>
{{end}}

{{define "maintenance_completed"}}
<p>Hello {{.RecipientName}},</p>
<p>Maintenance job <strong>{{.SerialNumber}}</strong> has been completed{{if .Minutes}} in {{.Minutes}} minutes{{end}}.</p>
{{end}}
`))

type mailData struct {
	RecipientName   string
	StaffName       string
	StaffDepartment string
	RequestType     string
	SerialNumber    string
	Link            string
	ActorName       string
	Remark          string
	Issue           string
	Location        string
	Priority        string
	SLAHours        int
	Minutes         int
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
