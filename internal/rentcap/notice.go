package rentcap

import (
	"fmt"
	"time"

	"leasewarden/internal/model"
)

// MinNoticeDays is the renewal notice window required by Law 33/2008.
const MinNoticeDays = 90

const dateLayout = "2006-01-02"

// CheckNotice classifies the renewal notice window. Dates are ISO
// (YYYY-MM-DD) strings; an empty string means the date was not supplied.
// Missing or unparseable dates degrade to a warning so the audit can still
// return a verdict. The day count is plain calendar subtraction, with no
// timezone or business-day adjustment.
func CheckNotice(renewalDate, noticeSentDate string) (model.Verdict, string) {
	if renewalDate == "" || noticeSentDate == "" {
		return model.VerdictWarn, "renewal or notice date not provided; notice window not checked"
	}

	renewal, err := time.Parse(dateLayout, renewalDate)
	if err != nil {
		return model.VerdictWarn, fmt.Sprintf("renewal date %q is not a valid YYYY-MM-DD date", renewalDate)
	}
	sent, err := time.Parse(dateLayout, noticeSentDate)
	if err != nil {
		return model.VerdictWarn, fmt.Sprintf("notice sent date %q is not a valid YYYY-MM-DD date", noticeSentDate)
	}

	days := int(renewal.Sub(sent).Hours() / 24)
	if days < MinNoticeDays {
		return model.VerdictFail, fmt.Sprintf("notice sent %d days before renewal; %d required", days, MinNoticeDays)
	}
	return model.VerdictPass, fmt.Sprintf("notice sent %d days before renewal", days)
}
