// internal/pkg/pdf/templates.go
package pdf

// Slip document HTML template
const slipTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}} {{.Slip.Code}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .doc-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .meta td {
            padding: 5px 12px 5px 0;
            vertical-align: top;
        }
        .meta .label {
            font-weight: bold;
        }
        table.items {
            width: 100%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        table.items th, table.items td {
            border: 1px solid #ddd;
            padding: 8px;
            text-align: left;
        }
        table.items th {
            background: #f3f4f6;
        }
        .total {
            margin-top: 20px;
            text-align: right;
            font-size: 16px;
            font-weight: bold;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="doc-title">{{.Title}}</div>
            <div>{{.CompanyName}}</div>
        </div>
        <div>
            <table class="meta">
                <tr><td class="label">Code</td><td>{{.Slip.Code}}</td></tr>
                <tr><td class="label">Status</td><td>{{.Slip.Status}}</td></tr>
                <tr><td class="label">Printed</td><td>{{.PrintedDate}}</td></tr>
            </table>
        </div>
    </div>

    <table class="items">
        <tr>
            <th>#</th>
            <th>Product</th>
            <th>Unit Price</th>
            <th>Requested</th>
            <th>Actual</th>
        </tr>
        {{range $i, $item := .Slip.Items}}
        <tr>
            <td>{{$i}}</td>
            <td>{{$item.ProductName}}</td>
            <td>{{$item.UnitPrice}}</td>
            <td>{{$item.RequestQuantity}}</td>
            <td>{{$item.ActualQuantity}}</td>
        </tr>
        {{end}}
    </table>

    <div class="total">Total: {{.Slip.TotalAmount}}</div>
</body>
</html>
`

// Transfer manifest HTML template
const manifestTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Transfer Manifest {{.Request.Code}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .doc-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .meta td {
            padding: 5px 12px 5px 0;
        }
        .meta .label {
            font-weight: bold;
        }
        table.items {
            width: 100%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        table.items th, table.items td {
            border: 1px solid #ddd;
            padding: 8px;
            text-align: left;
        }
        table.items th {
            background: #f3f4f6;
        }
        .shortage {
            color: #dc2626;
            font-weight: bold;
        }
        .batches {
            font-size: 12px;
            color: #555;
        }
    </style>
</head>
<body>
    <div class="doc-title">Transfer Manifest</div>
    <div>{{.CompanyName}}</div>

    <table class="meta">
        <tr><td class="label">Code</td><td>{{.Request.Code}}</td></tr>
        <tr><td class="label">Status</td><td>{{.Request.Status}}</td></tr>
        <tr><td class="label">From branch</td><td>{{.Request.SourceBranchID}}</td></tr>
        <tr><td class="label">To branch</td><td>{{.Request.TargetBranchID}}</td></tr>
        <tr><td class="label">Requested by</td><td>{{.Request.CreatedBy}}</td></tr>
        <tr><td class="label">Printed</td><td>{{.PrintedDate}}</td></tr>
    </table>

    <table class="items">
        <tr>
            <th>Product</th>
            <th>Requested</th>
            <th>Allocated</th>
            <th>Missing</th>
            <th>Batches</th>
        </tr>
        {{range .Preview.Items}}
        <tr>
            <td>{{.ProductName}}</td>
            <td>{{.RequestedQty}}</td>
            <td>{{.AllocatedQty}}</td>
            <td>{{if gt .MissingQty 0}}<span class="shortage">{{.MissingQty}}</span>{{else}}0{{end}}</td>
            <td class="batches">
                {{range .Batches}}{{if gt .TakeQty 0}}{{.BatchCode}} ({{.TakeQty}}) {{end}}{{end}}
            </td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`
