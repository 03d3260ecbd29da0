package notification

import (
	"fmt"
	"time"
)

const dateLayout = "Jan 2, 2006"

func welcomeMessage(name, email, password string) (subject, body string) {
	subject = "Welcome to the Leave Management System"
	body = fmt.Sprintf(`Hi %s,

Your account has been created.

Login email: %s
Temporary password: %s

Please sign in and change your password right away.

Best regards,
HR Team`, name, email, password)
	return subject, body
}

func submissionMessage(managerName, employeeName, leaveType string, start, end time.Time, days int, reason string) (subject, body string) {
	subject = fmt.Sprintf("Leave request from %s", employeeName)
	body = fmt.Sprintf(`Hi %s,

%s has requested %s.

From: %s
To: %s
Days: %d
Reason: %s

Please review the request in the leave portal.

Best regards,
Leave Management System`,
		managerName, employeeName, leaveType,
		start.Format(dateLayout), end.Format(dateLayout), days, reason)
	return subject, body
}

func statusMessage(employeeName, leaveType string, start, end time.Time, status, deciderName, remarks string) (subject, body string) {
	subject = fmt.Sprintf("Your leave request was %s", status)
	body = fmt.Sprintf(`Hi %s,

Your %s request from %s to %s was %s by %s.`,
		employeeName, leaveType,
		start.Format(dateLayout), end.Format(dateLayout), status, deciderName)
	if remarks != "" {
		body += fmt.Sprintf("\n\nRemarks: %s", remarks)
	}
	body += "\n\nBest regards,\nLeave Management System"
	return subject, body
}
