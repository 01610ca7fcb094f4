// Package validation checks request input against pipe-separated rule
// strings and collects failures in a per-field error bag.
//
//	v := validation.Make(req.All(), validation.Rules{
//	    "name":  "required|min:2|max:100",
//	    "email": "required|email",
//	})
//	if v.Fails() {
//	    res.ValidationError(v.Errors())
//	    return
//	}
//
// Available rules: required, string, numeric, integer, boolean, email, url,
// uuid, min:n, max:n, between:min,max, in:a,b,c, confirmed, alpha_num,
// regex:pattern, nullable, sometimes.
//
// Rules apply in order and stop at the first failure per field. The error
// bag serialises as {"errors": {"field": ["message", ...]}}, which
// Response.ValidationError sends with status 422.
package validation
