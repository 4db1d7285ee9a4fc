/*
	Project: Registro - gradebook for a single teacher
	Target: primary & secondary school teachers (AD / A / B / C grading scale)
*/
package registro

/*
TODO: students: import a class list from CSV
TODO: report: cancel an in-flight feedback request when another student or subject is selected
TODO: export: restore command reading a registro_backup_<date>.json file back into storage
*/
